package ui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/saishagoel27/scribbly/internal/models"
	"github.com/saishagoel27/scribbly/internal/services"
	"github.com/saishagoel27/scribbly/internal/session"
	"github.com/saishagoel27/scribbly/internal/shared"
	"github.com/saishagoel27/scribbly/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	UploadView ViewState = iota
	ConfigureView
	ConfirmView
	ProcessView
	StudyView
	SummaryView
	ResultView
)

// Configuration happens in sub-steps so the two lists and the count
// selector share the configure view.
const (
	stepMode = iota
	stepDifficulty
	stepCount
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	store  *session.Store
	svc    services.Service
	engine *tasks.StudyEngine
	cfg    *shared.Config

	width  int
	height int

	picker         filepicker.Model
	uploading      bool
	modeList       list.Model
	difficultyList list.Model
	configStep     int
	studyCfg       models.StudyConfig

	progressChan chan tasks.ProgressUpdate
	update       tasks.ProgressUpdate
	bar          progress.Model
	result       *models.ProcessingResults

	cardIdx  int
	revealed bool

	err  error
	help help.Model
	keys keyMap
}

type uploadedMsg struct {
	meta *models.FileMetadata
	err  error
}

type progressUpdateMsg tasks.ProgressUpdate

type processCompleteMsg struct {
	result *models.ProcessingResults
	err    error
}

// NewModel creates a new TUI model with the provided dependencies. The
// initial view follows the restored session's stage.
func NewModel(ctx context.Context, store *session.Store, svc services.Service, engine *tasks.StudyEngine, cfg *shared.Config) *Model {
	picker := filepicker.New()
	picker.CurrentDirectory, _ = os.Getwd()
	picker.AllowedTypes = allowedTypes(cfg)

	m := &Model{
		ctx:      ctx,
		store:    store,
		svc:      svc,
		engine:   engine,
		cfg:      cfg,
		picker:   picker,
		studyCfg: store.Session().Config(),
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}

	m.modeList = newChoiceList("Study Mode", modeItems())
	m.difficultyList = newChoiceList("Difficulty Focus", difficultyItems())

	switch store.Stage() {
	case models.StageConfigure:
		m.view = ConfigureView
	case models.StageProcess:
		m.view = ConfirmView
	case models.StageStudy:
		m.view = StudyView
	default:
		m.view = UploadView
	}
	return m
}

func allowedTypes(cfg *shared.Config) []string {
	types := make([]string, len(cfg.Files.SupportedTypes))
	for i, t := range cfg.Files.SupportedTypes {
		types[i] = "." + t
	}
	return types
}

func newChoiceList(title string, items []list.Item) list.Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	return l
}

// Init starts the file picker.
func (m *Model) Init() tea.Cmd {
	return m.picker.Init()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.picker.Height = msg.Height - 8
		m.modeList.SetSize(msg.Width-4, msg.Height-8)
		m.difficultyList.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case UploadView:
			return m.handleUploadKeys(msg)
		case ConfigureView:
			return m.handleConfigureKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case StudyView:
			return m.handleStudyKeys(msg)
		case SummaryView:
			return m.handleSummaryKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case uploadedMsg:
		m.uploading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		if err := m.store.SetFile(msg.meta); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.view = ConfigureView
		m.configStep = stepMode
		return m, nil

	case progressUpdateMsg:
		m.update = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case processCompleteMsg:
		if m.progressChan != nil {
			m.progressChan = nil
		}
		if msg.err != nil {
			m.err = msg.err
			m.view = ConfirmView
			return m, nil
		}
		m.err = nil
		m.result = msg.result
		m.cardIdx = 0
		m.revealed = false
		m.view = StudyView
		return m, nil
	}

	return m.updateControls(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case UploadView:
		return m.renderUpload()
	case ConfigureView:
		return m.renderConfigure()
	case ConfirmView:
		return m.renderConfirm()
	case ProcessView:
		return m.renderProcess()
	case StudyView:
		return m.renderStudy()
	case SummaryView:
		return m.renderSummary()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleUploadKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}

	if m.uploading {
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		m.uploading = true
		m.err = nil
		return m, tea.Batch(cmd, m.uploadFile(path))
	}
	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		m.err = fmt.Errorf("%w: %s", shared.ErrUnsupportedFile, filepath.Base(path))
	}
	return m, cmd
}

func (m *Model) handleConfigureKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		switch m.configStep {
		case stepCount:
			m.configStep = stepDifficulty
		case stepDifficulty:
			m.configStep = stepMode
		default:
			if m.store.CanGoTo(models.StageUpload) {
				if err := m.store.GoBack(models.StageUpload); err != nil {
					m.err = err
					return m, nil
				}
				m.view = UploadView
				return m, m.picker.Init()
			}
		}
		return m, nil
	}

	switch m.configStep {
	case stepMode:
		if msg.String() == "enter" {
			if item, ok := m.modeList.SelectedItem().(choiceItem); ok {
				m.studyCfg.Mode = models.StudyMode(item.value)
				if !m.studyCfg.Mode.WantsCards() {
					return m.confirmConfig()
				}
				m.configStep = stepDifficulty
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.modeList, cmd = m.modeList.Update(msg)
		return m, cmd

	case stepDifficulty:
		if msg.String() == "enter" {
			if item, ok := m.difficultyList.SelectedItem().(choiceItem); ok {
				m.studyCfg.Difficulty = models.Difficulty(item.value)
				m.configStep = stepCount
			}
			return m, nil
		}
		var cmd tea.Cmd
		m.difficultyList, cmd = m.difficultyList.Update(msg)
		return m, cmd

	case stepCount:
		switch msg.String() {
		case "up", "k", "right", "+":
			if m.studyCfg.NumCards < m.cfg.Study.MaxFlashcards {
				m.studyCfg.NumCards++
			}
		case "down", "j", "left", "-":
			if m.studyCfg.NumCards > 1 {
				m.studyCfg.NumCards--
			}
		case "enter":
			return m.confirmConfig()
		}
		return m, nil
	}
	return m, nil
}

func (m *Model) confirmConfig() (tea.Model, tea.Cmd) {
	if err := m.store.SetConfig(m.studyCfg); err != nil {
		m.err = err
		return m, nil
	}
	m.err = nil
	m.view = ConfirmView
	return m, nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		if err := m.store.GoBack(models.StageConfigure); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.view = ConfigureView
		m.configStep = stepMode
		return m, nil
	case "y", "enter":
		if err := m.store.BeginProcessing(); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.view = ProcessView
		return m, m.startProcessing()
	}
	return m, nil
}

func (m *Model) handleStudyKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.store.Cards()

	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		if err := m.store.GoBack(models.StageConfigure); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.view = ConfigureView
		m.configStep = stepMode
		return m, nil
	case "v":
		m.view = SummaryView
		return m, nil
	case "f":
		m.view = ResultView
		return m, nil
	}

	if len(cards) == 0 {
		return m, nil
	}

	switch msg.String() {
	case "left", "h":
		if m.cardIdx > 0 {
			m.cardIdx--
			m.revealed = false
		}
	case "right", "l":
		if m.cardIdx < len(cards)-1 {
			m.cardIdx++
			m.revealed = false
		}
	case " ", "enter":
		if err := m.store.RevealCard(m.cardIdx); err != nil {
			m.err = err
			return m, nil
		}
		m.revealed = true
	case "c", "x":
		if !m.revealed {
			return m, nil
		}
		if err := m.store.RecordAnswer(m.cardIdx, msg.String() == "c"); err != nil {
			m.err = err
			return m, nil
		}
		if m.cardIdx < len(cards)-1 {
			m.cardIdx++
			m.revealed = false
		} else {
			m.view = ResultView
		}
	case "s":
		if err := m.store.Shuffle(); err != nil {
			m.err = err
			return m, nil
		}
		m.cardIdx = 0
		m.revealed = false
	}
	return m, nil
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "v":
		m.view = StudyView
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if err := m.store.RestartStudy(); err != nil {
			m.err = err
			return m, nil
		}
		m.cardIdx = 0
		m.revealed = false
		m.err = nil
		m.view = StudyView
	case "v":
		m.view = SummaryView
	}
	return m, nil
}

func (m *Model) updateControls(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case UploadView:
		m.picker, cmd = m.picker.Update(msg)
	case ConfigureView:
		switch m.configStep {
		case stepMode:
			m.modeList, cmd = m.modeList.Update(msg)
		case stepDifficulty:
			m.difficultyList, cmd = m.difficultyList.Update(msg)
		}
	}
	return m, cmd
}

func (m *Model) uploadFile(path string) tea.Cmd {
	return func() tea.Msg {
		content, err := os.ReadFile(path)
		if err != nil {
			return uploadedMsg{err: err}
		}
		if len(content) == 0 {
			return uploadedMsg{err: shared.ErrEmptyFile}
		}
		if int64(len(content)) > m.cfg.MaxFileBytes() {
			return uploadedMsg{err: fmt.Errorf("%w: %s exceeds %s", shared.ErrFileTooLarge,
				shared.FormatBytes(int64(len(content))), shared.FormatBytes(m.cfg.MaxFileBytes()))}
		}
		if !m.cfg.SupportsFileType(shared.FileExtension(path)) {
			return uploadedMsg{err: fmt.Errorf("%w: .%s", shared.ErrUnsupportedFile, shared.FileExtension(path))}
		}

		meta, err := m.svc.Upload(m.ctx, filepath.Base(path), content)
		return uploadedMsg{meta: meta, err: err}
	}
}

func (m *Model) startProcessing() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	filename := ""
	if file := m.store.Session().File(); file != nil {
		filename = file.Filename
	}
	cfg := m.store.Session().Config()

	go func() {
		result, err := m.engine.Run(m.ctx, m.progressChan, filename, cfg)
		if err != nil {
			_ = m.store.FailProcessing(err)
		} else if ferr := m.store.FinishProcessing(result); ferr != nil {
			err = ferr
		}
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return processCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return processCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderUpload() string {
	title := styles.title.Render("Upload Study Material")

	var status string
	switch {
	case m.uploading:
		status = styles.warn.Render("Uploading...")
	case m.err != nil:
		status = styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	default:
		status = styles.help.Render(fmt.Sprintf("Supported: %s, up to %s",
			strings.Join(m.cfg.Files.SupportedTypes, ", "), shared.FormatBytes(m.cfg.MaxFileBytes())))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s", title, status, m.picker.View(), helpView)
}

func (m *Model) renderConfigure() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress esc to go back, q to quit", m.err))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.enter, m.keys.back, m.keys.quit})

	switch m.configStep {
	case stepDifficulty:
		return fmt.Sprintf("%s\n\n%s", m.difficultyList.View(), helpView)
	case stepCount:
		title := styles.title.Render("Flashcard Count")
		count := fmt.Sprintf("\n  ◄ %s ►\n", styles.ok.Render(fmt.Sprintf("%d cards", m.studyCfg.NumCards)))
		hint := styles.help.Render(fmt.Sprintf("↑/↓ to adjust (1-%d), enter to continue", m.cfg.Study.MaxFlashcards))
		return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, count, hint, helpView)
	default:
		return fmt.Sprintf("%s\n\n%s", m.modeList.View(), helpView)
	}
}

func (m *Model) renderConfirm() string {
	sess := m.store.Session()
	file := sess.File()
	cfg := sess.Config()

	title := styles.title.Render("Generate Study Materials?")

	var info string
	if file != nil {
		info = fmt.Sprintf("\nFile: %s (%s, ~%d pages)\n", file.Filename, shared.FormatBytes(file.SizeBytes), file.Pages)
	}
	info += fmt.Sprintf("Mode: %s\nDifficulty: %s\n", cfg.Mode, cfg.Difficulty)
	if cfg.Mode.WantsCards() {
		info += fmt.Sprintf("Flashcards: %d\n", cfg.NumCards)
	}
	info += fmt.Sprintf("Estimated time: %s\n", models.EstimateProcessing(file, cfg).Round(time.Second))

	var errLine string
	if m.err != nil {
		errLine = styles.err.Render(fmt.Sprintf("\nLast run failed: %v\n", m.err))
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n%s", title, info, errLine, helpView)
}

func (m *Model) renderProcess() string {
	title := styles.title.Render("Processing Document")

	var phase string
	switch m.update.Phase {
	case tasks.ExtractText:
		phase = "Extracting text..."
	case tasks.AnalyzeContent:
		phase = "Analyzing content..."
	case tasks.GenerateCards:
		phase = fmt.Sprintf("Generating flashcards (%d/%d)", m.update.Step, m.update.Total)
	case tasks.Finalize:
		phase = "Finalizing..."
	default:
		phase = "Working..."
	}

	bar := m.bar.ViewAs(m.update.Phase.Fraction())
	return fmt.Sprintf("%s\n\n%s\n\n%s\n%s", title, bar, phase, m.update.Message)
}

func (m *Model) renderStudy() string {
	cards := m.store.Cards()
	if len(cards) == 0 {
		body := styles.warn.Render("No flashcards in this session.")
		helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
		return fmt.Sprintf("%s\n%s\n\nPress v for the summary.\n\n%s",
			styles.title.Render("Study"), body, helpView)
	}

	card := cards[m.cardIdx]
	title := styles.title.Render(fmt.Sprintf("Card %d of %d", m.cardIdx+1, len(cards)))
	tag := styles.tag.Render(fmt.Sprintf("%s • %s", card.Difficulty(), card.Progress()))

	face := card.Question()
	prompt := "space to reveal the answer"
	if m.revealed {
		face = fmt.Sprintf("%s\n\n%s", card.Question(), styles.ok.Render(card.Answer()))
		prompt = "c correct • x incorrect"
	}

	stats := m.store.Session().Stats()
	footer := styles.help.Render(fmt.Sprintf("%d correct, %d incorrect • %s", stats.Correct, stats.Incorrect, prompt))

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.reveal, m.keys.correct, m.keys.incorrect, m.keys.shuffle, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n\n%s", title, tag, styles.card.Render(face), footer, helpView)
}

func (m *Model) renderSummary() string {
	summary := m.store.Session().Summary()
	if summary == nil || summary.Best == "" {
		return fmt.Sprintf("%s\n%s\n\nPress esc to return.",
			styles.title.Render("Summary"), styles.warn.Render("No summary was generated for this session."))
	}

	title := styles.title.Render("Summary")
	body := summary.Best

	var phrases string
	if len(summary.KeyPhrases) > 0 {
		phrases = fmt.Sprintf("\n\n%s\n", styles.ok.Render("Key concepts"))
		for _, p := range summary.KeyPhrases {
			phrases += fmt.Sprintf("  • %s\n", p)
		}
	}

	var note string
	if m.store.Session().FallbackUsed() {
		note = styles.warn.Render("\nGenerated with local fallback analysis.")
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s%s\n\n%s", title, body, phrases, note, helpView)
}

func (m *Model) renderResult() string {
	stats := m.store.Session().Stats()
	counts := m.store.ProgressCounts()

	title := styles.ok.Render("✓ Study Session Complete")
	info := fmt.Sprintf(
		"\nAnswered: %d\nCorrect: %d\nIncorrect: %d\nAccuracy: %.1f%%\n\nMastered: %d\nLearning: %d\nUnseen: %d\n",
		stats.Total(), stats.Correct, stats.Incorrect, stats.Accuracy(),
		counts[models.ProgressMastered], counts[models.ProgressLearning], counts[models.ProgressUnseen],
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}
