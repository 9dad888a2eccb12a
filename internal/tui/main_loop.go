package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/geosync/geosync/internal/qgis"
	"github.com/geosync/geosync/internal/service"
	"github.com/geosync/geosync/internal/store"
	"github.com/geosync/geosync/internal/themes"
	"github.com/geosync/geosync/models"
)

type mainLoopView int

const (
	viewList mainLoopView = iota
	viewClone
	viewDetail
	viewThemes
)

const (
	cloneFieldNamespace = iota
	cloneFieldName
	cloneFieldDir
)

// mainLoopModel is the authenticated part of the TUI: the list of local
// projects plus the clone, detail and theme screens layered on top of it.
type mainLoopModel struct {
	ctx      context.Context
	services *service.ClientServices

	view mainLoopView

	items []models.LocalProject
	idx   int

	spin     spinner.Model
	busy     bool
	busyText string

	status  string
	errText string

	cloneInputs []textinput.Model
	cloneFocus  int

	detailMeta   models.ProjectMetadata
	detailLoaded bool

	themeList *themes.Model
	themeIdx  int

	logout bool
}

func newMainLoopModel(ctx context.Context, services *service.ClientServices) mainLoopModel {
	namespace := textinput.New()
	namespace.Placeholder = "namespace"
	namespace.CharLimit = 64
	namespace.Focus()

	name := textinput.New()
	name.Placeholder = "имя проекта"
	name.CharLimit = 64

	dir := textinput.New()
	dir.Placeholder = "каталог на диске"
	dir.CharLimit = 255

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return mainLoopModel{
		ctx:         ctx,
		services:    services,
		spin:        sp,
		cloneInputs: []textinput.Model{namespace, name, dir},
	}
}

func (m mainLoopModel) Init() tea.Cmd {
	return tea.Batch(m.cmdLoadItems(), m.spin.Tick)
}

func (m mainLoopModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case listLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.items = msg.items
		if m.idx >= len(m.items) {
			m.idx = 0
		}
		return m, nil

	case syncDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.errText = ""
		m.status = describePlan(msg.plan)
		return m, m.cmdLoadItems()

	case cloneDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.errText = ""
		m.status = "Проект " + msg.project.FullName() + " склонирован в " + msg.project.Dir
		m.view = viewList
		m.resetCloneForm()
		return m, m.cmdLoadItems()

	case detailLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = humanizeServerUnavailableError(msg.err)
			return m, nil
		}
		m.detailMeta = msg.meta
		m.detailLoaded = true
		return m, nil

	case themeLoadedMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = humanizeServerUnavailableError(msg.err)
			m.view = viewList
			return m, nil
		}
		m.themeList = themes.NewModel(msg.project)
		m.themeIdx = m.themeList.ActiveIndex()
		if m.themeIdx < 0 {
			m.themeIdx = 0
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.view == viewClone {
		return m, m.updateCloneInputs(msg)
	}
	return m, nil
}

func (m mainLoopModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.busy {
		return m, nil
	}

	switch m.view {
	case viewClone:
		return m.handleCloneKey(msg)
	case viewDetail:
		return m.handleDetailKey(msg)
	case viewThemes:
		return m.handleThemesKey(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m mainLoopModel) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.up):
		if m.idx > 0 {
			m.idx--
		}
	case key.Matches(msg, keys.down):
		if m.idx < len(m.items)-1 {
			m.idx++
		}
	case key.Matches(msg, keys.enter):
		if len(m.items) == 0 {
			return m, nil
		}
		m.view = viewDetail
		m.detailLoaded = false
		m.busy = true
		m.busyText = "Чтение метаданных"
		return m, tea.Batch(m.cmdLoadDetail(m.items[m.idx]), m.spin.Tick)
	case key.Matches(msg, keys.clone):
		m.view = viewClone
		m.status = ""
		m.errText = ""
		return m, textinput.Blink
	case key.Matches(msg, keys.sync):
		if len(m.items) == 0 {
			return m, nil
		}
		m.busy = true
		m.busyText = "Синхронизация " + m.items[m.idx].FullName()
		return m, tea.Batch(m.cmdSync(m.items[m.idx]), m.spin.Tick)
	case key.Matches(msg, keys.themes):
		if len(m.items) == 0 {
			return m, nil
		}
		m.view = viewThemes
		m.themeList = nil
		m.busy = true
		m.busyText = "Загрузка проекта QGIS"
		return m, tea.Batch(m.cmdLoadThemes(m.items[m.idx]), m.spin.Tick)
	case key.Matches(msg, keys.copy):
		if len(m.items) == 0 {
			return m, nil
		}
		if err := clipboard.WriteAll(m.items[m.idx].Dir); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.status = "Путь скопирован в буфер обмена"
	case key.Matches(msg, keys.logout):
		m.logout = true
		return m, tea.Quit
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	}

	return m, nil
}

func (m mainLoopModel) handleCloneKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.view = viewList
		m.resetCloneForm()
		return m, nil
	case "tab", "down":
		m.cloneFocusNext()
		return m, nil
	case "shift+tab", "up":
		m.cloneFocusPrev()
		return m, nil
	case "enter":
		if m.cloneFocus < len(m.cloneInputs)-1 {
			m.cloneFocusNext()
			return m, nil
		}

		namespace := strings.TrimSpace(m.cloneInputs[cloneFieldNamespace].Value())
		name := strings.TrimSpace(m.cloneInputs[cloneFieldName].Value())
		dir := strings.TrimSpace(m.cloneInputs[cloneFieldDir].Value())
		if namespace == "" || name == "" {
			m.errText = "Укажите namespace и имя проекта"
			return m, nil
		}
		if dir == "" {
			dir = filepath.Join(".", name)
		}

		m.errText = ""
		m.busy = true
		m.busyText = "Клонирование " + namespace + "/" + name
		return m, tea.Batch(m.cmdClone(namespace, name, dir), m.spin.Tick)
	}

	return m, m.updateCloneInputs(msg)
}

func (m mainLoopModel) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "esc":
		m.view = viewList
		return m, nil
	case key.Matches(msg, keys.sync):
		if len(m.items) == 0 {
			return m, nil
		}
		m.busy = true
		m.busyText = "Синхронизация " + m.items[m.idx].FullName()
		m.view = viewList
		return m, tea.Batch(m.cmdSync(m.items[m.idx]), m.spin.Tick)
	case key.Matches(msg, keys.copy):
		if err := clipboard.WriteAll(m.items[m.idx].Dir); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.status = "Путь скопирован в буфер обмена"
	}

	return m, nil
}

func (m mainLoopModel) handleThemesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "esc" {
		m.view = viewList
		return m, nil
	}
	if m.themeList == nil || m.themeList.Len() == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.up):
		if m.themeIdx > 0 {
			m.themeIdx--
		}
	case key.Matches(msg, keys.down):
		if m.themeIdx < m.themeList.Len()-1 {
			m.themeIdx++
		}
	case key.Matches(msg, keys.enter):
		if err := m.themeList.SetActiveIndex(m.themeIdx); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.status = "Тема применена: " + m.themeList.NameAt(m.themeIdx)
	case key.Matches(msg, keys.copy):
		if err := clipboard.WriteAll(m.themeList.NameAt(m.themeIdx)); err != nil {
			m.errText = err.Error()
			return m, nil
		}
		m.status = "Имя темы скопировано в буфер обмена"
	}

	return m, nil
}

func (m mainLoopModel) View() string {
	switch m.view {
	case viewClone:
		return m.viewCloneForm()
	case viewDetail:
		return m.viewDetail()
	case viewThemes:
		return m.viewThemes()
	default:
		return m.viewList()
	}
}

func (m mainLoopModel) viewList() string {
	var b strings.Builder

	if len(m.items) == 0 {
		b.WriteString("Локальных проектов нет. Нажмите 'a', чтобы склонировать проект с сервера.\n")
	} else {
		b.WriteString(fmt.Sprintf("%-3s │ %-30s │ %-7s │ %s\n", "ID", "Проект", "Версия", "Каталог"))
		for i, item := range m.items {
			cursor := " "
			if i == m.idx {
				cursor = ">"
			}
			b.WriteString(fmt.Sprintf(
				"%s%-2d │ %-30s │ v%-6d │ %s\n",
				cursor, i+1, fitText(item.FullName(), 30), item.Version, fitText(item.Dir, 40),
			))
		}
	}

	b.WriteString(m.footerStatus())

	return renderPage(
		"ПРОЕКТЫ",
		strings.TrimRight(b.String(), "\n"),
		"enter: детали │ a: клонировать │ s: синхронизировать │ t: темы │ c: путь │ l: сменить пользователя │ q: выход",
	)
}

func (m mainLoopModel) viewCloneForm() string {
	var b strings.Builder
	labels := []string{"Namespace:", "Имя проекта:", "Каталог (пусто = ./<имя>):"}
	for i, input := range m.cloneInputs {
		b.WriteString(labels[i])
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}
	b.WriteString(m.footerStatus())

	return renderPage(
		"КЛОНИРОВАНИЕ ПРОЕКТА",
		strings.TrimRight(b.String(), "\n"),
		"enter: клонировать │ tab: следующее поле │ esc: назад",
	)
}

func (m mainLoopModel) viewDetail() string {
	var b strings.Builder

	if len(m.items) > 0 {
		item := m.items[m.idx]
		b.WriteString("Проект:  " + item.FullName() + "\n")
		b.WriteString(fmt.Sprintf("Версия:  v%d\n", item.Version))
		b.WriteString("Каталог: " + item.Dir + "\n")
	}

	if m.detailLoaded {
		var total int64
		for _, f := range m.detailMeta.Files {
			total += f.Size
		}
		b.WriteString(fmt.Sprintf("Файлов:  %d (%s)\n\n", len(m.detailMeta.Files), formatSize(total)))

		for _, f := range m.detailMeta.Files {
			b.WriteString(fmt.Sprintf("  %-40s %10s\n", fitText(f.Path, 40), formatSize(f.Size)))
		}
	}

	b.WriteString(m.footerStatus())

	return renderPage(
		"ПРОЕКТ",
		strings.TrimRight(b.String(), "\n"),
		"s: синхронизировать │ c: путь │ esc: назад",
	)
}

func (m mainLoopModel) viewThemes() string {
	var b strings.Builder

	if m.busy {
		b.WriteString(m.spin.View() + " " + m.busyText + "\n")
	} else if m.themeList == nil || m.themeList.Len() == 0 {
		b.WriteString("В проекте нет тем карты.\n")
	} else {
		b.WriteString(titleStyle.Render("Темы карты") + "\n\n")
		for i := 0; i < m.themeList.Len(); i++ {
			cursor := " "
			if i == m.themeIdx {
				cursor = ">"
			}
			marker := " "
			if i == m.themeList.ActiveIndex() {
				marker = "*"
			}
			b.WriteString(fmt.Sprintf("%s %s %s\n", cursor, marker, m.themeList.NameAt(i)))
		}
		b.WriteString("\n" + helpStyle.Render("* отмечает активную тему") + "\n")
	}

	if m.errText != "" {
		b.WriteString("\n" + errorStyle.Render("Ошибка: "+m.errText) + "\n")
	} else if m.status != "" {
		b.WriteString("\nOK: " + m.status + "\n")
	}

	return appStyle.Render(renderPage(
		"ТЕМЫ КАРТЫ",
		strings.TrimRight(b.String(), "\n"),
		"enter: применить │ c: копировать имя │ esc: назад",
	))
}

func (m mainLoopModel) footerStatus() string {
	var b strings.Builder
	if m.busy {
		b.WriteString("\n" + m.spin.View() + " " + m.busyText + "...\n")
	}
	if m.errText != "" {
		b.WriteString("\nОшибка: " + m.errText + "\n")
	} else if m.status != "" {
		b.WriteString("\nOK: " + m.status + "\n")
	}
	return b.String()
}

func (m mainLoopModel) cmdLoadItems() tea.Cmd {
	return func() tea.Msg {
		items, err := m.services.Sync.ListProjects(m.ctx)
		return listLoadedMsg{items: items, err: err}
	}
}

func (m mainLoopModel) cmdSync(project models.LocalProject) tea.Cmd {
	return func() tea.Msg {
		plan, err := m.services.Sync.SyncProject(m.ctx, project)
		return syncDoneMsg{plan: plan, err: err}
	}
}

func (m mainLoopModel) cmdClone(namespace, name, dir string) tea.Cmd {
	return func() tea.Msg {
		project, err := m.services.Sync.CloneProject(m.ctx, namespace, name, dir)
		return cloneDoneMsg{project: project, err: err}
	}
}

func (m mainLoopModel) cmdLoadDetail(project models.LocalProject) tea.Cmd {
	return func() tea.Msg {
		data, err := os.ReadFile(store.CachedMetadataPath(project.Dir))
		if err != nil {
			return detailLoadedMsg{err: err}
		}
		return detailLoadedMsg{meta: models.DecodeProjectMetadata(data)}
	}
}

func (m mainLoopModel) cmdLoadThemes(project models.LocalProject) tea.Cmd {
	return func() tea.Msg {
		path, err := findQGISProjectFile(project.Dir)
		if err != nil {
			return themeLoadedMsg{err: err}
		}

		qgisProject, err := qgis.LoadProject(path)
		if err != nil {
			return themeLoadedMsg{err: err}
		}
		return themeLoadedMsg{project: qgisProject}
	}
}

// findQGISProjectFile returns the first .qgs file in dir, in lexical order.
func findQGISProjectFile(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(entry.Name()), ".qgs") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}

	return "", fmt.Errorf("в каталоге %s нет файла проекта QGIS (.qgs)", dir)
}

func describePlan(plan models.FileSyncPlan) string {
	if plan.IsEmpty() {
		return "Проект уже актуален"
	}

	parts := []string{
		fmt.Sprintf("загружено %d", len(plan.Download)),
		fmt.Sprintf("отправлено %d", len(plan.Upload)),
	}
	if n := len(plan.DeleteLocal) + len(plan.DeleteRemote); n > 0 {
		parts = append(parts, fmt.Sprintf("удалено %d", n))
	}
	if len(plan.Conflict) > 0 {
		parts = append(parts, fmt.Sprintf("конфликтов %d", len(plan.Conflict)))
	}

	return "Синхронизация завершена: " + strings.Join(parts, ", ")
}

func (m *mainLoopModel) resetCloneForm() {
	for i := range m.cloneInputs {
		m.cloneInputs[i].SetValue("")
		m.cloneInputs[i].Blur()
	}
	m.cloneFocus = 0
	m.cloneInputs[0].Focus()
}

func (m *mainLoopModel) cloneFocusNext() {
	m.cloneInputs[m.cloneFocus].Blur()
	m.cloneFocus = (m.cloneFocus + 1) % len(m.cloneInputs)
	m.cloneInputs[m.cloneFocus].Focus()
}

func (m *mainLoopModel) cloneFocusPrev() {
	m.cloneInputs[m.cloneFocus].Blur()
	m.cloneFocus--
	if m.cloneFocus < 0 {
		m.cloneFocus = len(m.cloneInputs) - 1
	}
	m.cloneInputs[m.cloneFocus].Focus()
}

func (m mainLoopModel) updateCloneInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, len(m.cloneInputs))
	for i := range m.cloneInputs {
		m.cloneInputs[i], cmds[i] = m.cloneInputs[i].Update(msg)
	}
	return tea.Batch(cmds...)
}
