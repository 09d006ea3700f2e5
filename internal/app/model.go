// Package app is the bubbletea model for the director TUI. It drives the
// four-step session: profile setup, topic selection, recording, review.
package app

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/shuleihust/ai-commercial-ip-director/internal/audio"
	"github.com/shuleihust/ai-commercial-ip-director/internal/capture"
	"github.com/shuleihust/ai-commercial-ip-director/internal/db"
	"github.com/shuleihust/ai-commercial-ip-director/internal/gateway"
	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
)

// setup form fields, in entry order.
const (
	fieldName = iota
	fieldProduct
	fieldAudience
	fieldCount
)

// Config wires the model's collaborators.
type Config struct {
	Gateway gateway.API
	Session *capture.Session
	Speech  *audio.Player
	Store   *db.Store // optional journal
}

// Model is the root bubbletea model for the director TUI.
type Model struct {
	flow    *topic.Workflow
	gw      gateway.API
	session *capture.Session
	speech  *audio.Player
	store   *db.Store

	journalID string

	// Setup form
	setupField  int
	setupInputs [fieldCount]string

	// Topic selection
	cursor       int
	generating   bool
	confirmRegen bool
	addingCustom bool
	customInput  string

	// Recording
	aspect        capture.AspectRatio
	cameraOpening bool
	voiceIndex    int
	speechLoading bool
	editingScript bool
	scriptInput   string
	elapsed       time.Duration

	// Analyses in flight
	analyzing int

	// UI state
	width  int
	height int

	errorMessage   string
	errorTransient bool
	statusText     string
	allDone        bool
}

// New creates a model at the setup screen.
func New(cfg Config) Model {
	return Model{
		flow:    topic.NewWorkflow(),
		gw:      cfg.Gateway,
		session: cfg.Session,
		speech:  cfg.Speech,
		store:   cfg.Store,
		aspect:  capture.AspectPortrait,
	}
}

// Init returns the initial command. The setup form needs nothing async.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update processes messages and returns the updated model and any commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case TopicsGeneratedMsg:
		m.generating = false
		m.statusText = ""
		m.flow.ReplaceTopics(msg.Topics)
		m.cursor = 0
		m.allDone = false
		return m, journalTopicsCmd(m.store, m.journalID, m.flow.Topics())

	case TopicsErrorMsg:
		m.generating = false
		m.statusText = ""
		m.errorMessage = "生成选题失败,请重试"
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case CameraReadyMsg:
		m.cameraOpening = false
		return m, nil

	case CameraErrorMsg:
		m.cameraOpening = false
		var access *capture.DeviceAccessError
		if errors.As(msg.Err, &access) {
			m.errorMessage = "无法访问摄像头或麦克风,请检查设备权限"
		} else {
			m.errorMessage = "打开摄像头失败"
		}
		return m, nil

	case RecordTickMsg:
		if !m.session.Recording() {
			return m, nil
		}
		m.elapsed = m.session.Elapsed()
		return m, recordTickCmd()

	case AnalysisDoneMsg:
		m.analyzing--
		// A batch regeneration can orphan an in-flight result; drop it.
		if err := m.flow.CompleteAnalysis(msg.TopicID, msg.Result); err != nil {
			return m, nil
		}
		return m, tea.Batch(
			journalStatusCmd(m.store, msg.TopicID, topic.StatusCompleted),
			journalAnalysisCmd(m.store, msg.TopicID, msg.Result),
		)

	case AnalysisErrorMsg:
		m.analyzing--
		m.flow.FailAnalysis(msg.TopicID)
		m.errorMessage = "视频分析失败,选中该选题可重试"
		m.errorTransient = true
		return m, tea.Batch(
			journalStatusCmd(m.store, msg.TopicID, topic.StatusRecorded),
			clearTransientErrorCmd(),
		)

	case SpeechReadyMsg:
		m.speechLoading = false
		done, started, err := m.speech.Play(msg.PCM)
		if err != nil {
			m.errorMessage = "语音播放失败"
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		if !started {
			return m, nil
		}
		return m, playbackWaitCmd(done)

	case SpeechErrorMsg:
		m.speechLoading = false
		m.errorMessage = "语音生成失败"
		m.errorTransient = true
		return m, clearTransientErrorCmd()

	case PlaybackDoneMsg:
		return m, nil

	case journalOpenedMsg:
		m.journalID = msg.sessionID
		if topics := m.flow.Topics(); len(topics) > 0 {
			return m, journalTopicsCmd(m.store, m.journalID, topics)
		}
		return m, nil

	case ClearTransientErrorMsg:
		if m.errorTransient {
			m.errorMessage = ""
			m.errorTransient = false
		}
		return m, nil
	}

	return m, nil
}

// handleKey routes key presses by step and text-entry mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == KeyCtrlC {
		return m.quit()
	}

	switch m.flow.Step() {
	case topic.StepSetup:
		return m.handleSetupKey(msg)
	case topic.StepTopicSelection:
		if m.addingCustom {
			return m.handleCustomInputKey(msg)
		}
		return m.handleSelectionKey(msg)
	case topic.StepRecording:
		if m.editingScript {
			return m.handleScriptInputKey(msg)
		}
		return m.handleRecordingKey(msg)
	case topic.StepReview:
		return m.handleReviewKey(msg)
	}
	return m, nil
}

// quit releases the device stream and stops any preview before exiting.
func (m Model) quit() (tea.Model, tea.Cmd) {
	if m.speech != nil {
		m.speech.Stop()
	}
	if m.session != nil {
		m.session.Release()
	}
	return m, tea.Quit
}

func (m Model) handleSetupKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEnter:
		if m.setupField < fieldCount-1 {
			m.setupField++
			return m, nil
		}
		return m.submitProfile()

	case KeyTab, KeyDown:
		m.setupField = (m.setupField + 1) % fieldCount
		return m, nil

	case KeyUp:
		m.setupField = (m.setupField + fieldCount - 1) % fieldCount
		return m, nil

	case KeyBackspace:
		m.setupInputs[m.setupField] = dropLastRune(m.setupInputs[m.setupField])
		return m, nil

	default:
		if s := typedText(msg); s != "" {
			m.setupInputs[m.setupField] += s
		}
		return m, nil
	}
}

// submitProfile validates the form and kicks off the first generation.
func (m Model) submitProfile() (tea.Model, tea.Cmd) {
	profile := topic.UserProfile{
		Name:           m.setupInputs[fieldName],
		Product:        m.setupInputs[fieldProduct],
		TargetAudience: m.setupInputs[fieldAudience],
	}
	if err := m.flow.SetProfile(profile); err != nil {
		m.errorMessage = "请填写完整的姓名、产品和目标人群"
		m.errorTransient = true
		return m, clearTransientErrorCmd()
	}
	m.generating = true
	m.statusText = "正在生成选题..."
	m.errorMessage = ""
	return m, tea.Batch(
		generateTopicsCmd(m.gw, profile),
		openJournalCmd(m.store, profile),
	)
}

func (m Model) handleSelectionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key != KeyRegenerate {
		m.confirmRegen = false
	}

	switch key {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeyJ, KeyDown:
		if m.cursor < len(m.flow.Topics())-1 {
			m.cursor++
		}
		return m, nil

	case KeyK, KeyUp:
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case KeyEnter:
		topics := m.flow.Topics()
		if m.generating || m.cursor >= len(topics) {
			return m, nil
		}
		t := topics[m.cursor]
		if t.Status == topic.StatusAnalyzing {
			return m, nil
		}
		if err := m.flow.Select(t.ID); err != nil {
			return m, nil
		}
		if m.flow.Step() == topic.StepRecording {
			m.scriptInput = t.Script
			m.elapsed = 0
			m.cameraOpening = true
			return m, openCameraCmd(m.session, m.aspect)
		}
		return m, nil

	case KeyAddCustom:
		m.addingCustom = true
		m.customInput = ""
		return m, nil

	case KeyRegenerate:
		if m.generating {
			return m, nil
		}
		// Regenerating replaces the whole batch, recorded work included.
		if m.hasRecordedWork() && !m.confirmRegen {
			m.confirmRegen = true
			return m, nil
		}
		m.confirmRegen = false
		profile, ok := m.flow.Profile()
		if !ok {
			return m, nil
		}
		m.generating = true
		m.statusText = "正在生成选题..."
		return m, generateTopicsCmd(m.gw, profile)
	}

	return m, nil
}

func (m Model) hasRecordedWork() bool {
	for _, t := range m.flow.Topics() {
		if t.Status != topic.StatusPending {
			return true
		}
	}
	return false
}

func (m Model) handleCustomInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.addingCustom = false
		m.customInput = ""
		return m, nil

	case KeyEnter:
		t, err := m.flow.AddCustom(m.customInput)
		if err != nil {
			m.errorMessage = "选题内容不能为空"
			m.errorTransient = true
			return m, clearTransientErrorCmd()
		}
		m.addingCustom = false
		m.customInput = ""
		m.cursor = len(m.flow.Topics()) - 1
		m.allDone = false
		if m.store != nil && m.journalID != "" {
			store, sessionID := m.store, m.journalID
			return m, func() tea.Msg {
				store.AppendTopic(sessionID, t)
				return nil
			}
		}
		return m, nil

	case KeyBackspace:
		m.customInput = dropLastRune(m.customInput)
		return m, nil

	default:
		if s := typedText(msg); s != "" {
			m.customInput += s
		}
		return m, nil
	}
}

func (m Model) handleRecordingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.speech.Stop()
		m.session.Release()
		m.elapsed = 0
		m.flow.CancelRecording()
		return m, nil

	case KeySpace:
		if m.session.Recording() {
			m.session.StopRecording()
			return m, nil
		}
		if !m.session.HasStream() {
			return m, nil
		}
		m.session.StartRecording()
		m.elapsed = 0
		return m, recordTickCmd()

	case KeyEnter:
		return m.finishTake()

	case KeyDiscard:
		if !m.session.HasStream() {
			return m, nil
		}
		m.session.DiscardAndRestart()
		m.elapsed = 0
		return m, recordTickCmd()

	case KeyRetry:
		return m.retryAnalysis()

	case KeyVoice:
		m.speech.Stop()
		m.voiceIndex = (m.voiceIndex + 1) % len(gateway.Presets)
		return m, nil

	case KeyPreview:
		if m.speech.Playing() {
			m.speech.Stop()
			return m, nil
		}
		if m.speechLoading {
			return m, nil
		}
		t, ok := m.flow.ActiveTopic()
		if !ok {
			return m, nil
		}
		m.speechLoading = true
		return m, synthesizeCmd(m.gw, t.Question, gateway.Presets[m.voiceIndex])

	case KeyScript:
		if t, ok := m.flow.ActiveTopic(); ok {
			m.editingScript = true
			m.scriptInput = t.Script
		}
		return m, nil

	case KeyAspect:
		if m.session.Recording() {
			return m, nil
		}
		if m.aspect == capture.AspectPortrait {
			m.aspect = capture.AspectLandscape
		} else {
			m.aspect = capture.AspectPortrait
		}
		m.cameraOpening = true
		return m, openCameraCmd(m.session, m.aspect)
	}

	return m, nil
}

// finishTake stops the take, assembles the artifact and dispatches analysis,
// then returns to the selection screen while the call runs in the background.
func (m Model) finishTake() (tea.Model, tea.Cmd) {
	if m.session.Recording() {
		m.session.StopRecording()
	}
	artifact := m.session.Assemble()
	if artifact == nil {
		m.errorMessage = "还没有录制内容"
		m.errorTransient = true
		return m, clearTransientErrorCmd()
	}
	t, ok := m.flow.ActiveTopic()
	if !ok {
		return m, nil
	}
	id, question := t.ID, t.Question
	if err := m.flow.StartAnalysis(id, artifact); err != nil {
		return m, nil
	}
	m.analyzing++
	m.elapsed = 0
	// The artifact is assembled; the stream must not outlive the screen.
	m.speech.Stop()
	m.session.Release()
	m.flow.Advance()
	return m, tea.Batch(
		analyzeCmd(m.gw, id, question, artifact),
		journalStatusCmd(m.store, id, topic.StatusAnalyzing),
	)
}

// retryAnalysis re-dispatches the retained artifact of a previously failed
// analysis without re-recording.
func (m Model) retryAnalysis() (tea.Model, tea.Cmd) {
	t, ok := m.flow.ActiveTopic()
	if !ok {
		return m, nil
	}
	id, question, artifact := t.ID, t.Question, t.Artifact
	if err := m.flow.RetryAnalysis(id); err != nil {
		return m, nil
	}
	m.analyzing++
	m.speech.Stop()
	m.session.Release()
	m.flow.Advance()
	return m, tea.Batch(
		analyzeCmd(m.gw, id, question, artifact),
		journalStatusCmd(m.store, id, topic.StatusAnalyzing),
	)
}

func (m Model) handleScriptInputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyEsc:
		m.editingScript = false
		return m, nil

	case KeyEnter:
		m.editingScript = false
		m.flow.SetScript(m.flow.ActiveTopicID(), m.scriptInput)
		return m, nil

	case KeyBackspace:
		m.scriptInput = dropLastRune(m.scriptInput)
		return m, nil

	default:
		if s := typedText(msg); s != "" {
			m.scriptInput += s
		}
		return m, nil
	}
}

func (m Model) handleReviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case KeyQuit, KeyQuitUpper:
		return m.quit()

	case KeyEnter, KeyEsc:
		m.allDone = m.flow.Advance()
		m.cursor = 0
		return m, nil
	}
	return m, nil
}

// typedText returns printable input for text-entry modes, empty otherwise.
func typedText(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return " "
	}
	return ""
}

func dropLastRune(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	return string(runes[:len(runes)-1])
}
