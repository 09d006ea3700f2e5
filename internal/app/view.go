package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/shuleihust/ai-commercial-ip-director/internal/capture"
	"github.com/shuleihust/ai-commercial-ip-director/internal/gateway"
	"github.com/shuleihust/ai-commercial-ip-director/internal/topic"
	"github.com/shuleihust/ai-commercial-ip-director/internal/ui"
)

// View renders the full TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())
	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))

	switch m.flow.Step() {
	case topic.StepSetup:
		sections = append(sections, m.renderSetup())
	case topic.StepTopicSelection:
		sections = append(sections, m.renderSelection())
	case topic.StepRecording:
		sections = append(sections, m.renderRecording())
	case topic.StepReview:
		sections = append(sections, m.renderReview())
	}

	sections = append(sections, ui.DividerStyle.Render(strings.Repeat("─", m.width)))
	if m.errorMessage != "" {
		sections = append(sections, ui.ErrorStyle.Render("错误: ")+ui.ErrorTextStyle.Render(m.errorMessage))
	}
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

var stepLabels = map[topic.Step]string{
	topic.StepSetup:          "1/4 基本信息",
	topic.StepTopicSelection: "2/4 选题",
	topic.StepRecording:      "3/4 录制",
	topic.StepReview:         "4/4 复盘",
}

func (m Model) renderHeader() string {
	title := ui.TitleStyle.Render("AI 商业 IP 导演")
	step := ui.StepLabelStyle.Render("  " + stepLabels[m.flow.Step()])

	var busy string
	if m.analyzing > 0 {
		busy = "  " + ui.SpinnerStyle.Render(fmt.Sprintf("⟳ 分析中 ×%d", m.analyzing))
	}
	return title + step + busy
}

func (m Model) renderSetup() string {
	labels := [fieldCount]string{"姓名 / 称呼", "产品或服务", "目标人群"}

	var lines []string
	lines = append(lines, ui.PanelTitleStyle.Render("先介绍一下你自己"))
	lines = append(lines, "")
	for i := 0; i < fieldCount; i++ {
		label := labels[i]
		value := m.setupInputs[i]
		if i == m.setupField {
			lines = append(lines, ui.SelectedStyle.Render("> "+label+": ")+value+"▌")
		} else {
			lines = append(lines, ui.DimStyle.Render("  "+label+": ")+value)
		}
	}
	lines = append(lines, "")
	if m.generating {
		lines = append(lines, ui.SpinnerStyle.Render("⟳ ")+ui.StatusStyle.Render(m.statusText))
	} else {
		lines = append(lines, ui.DimStyle.Render("Enter 下一项 / 提交  Tab 切换"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSelection() string {
	var lines []string
	topics := m.flow.Topics()

	if m.allDone && m.flow.AllCompleted() {
		lines = append(lines, ui.CompletedBadgeStyle.Render("🎉 所有选题都已完成!"))
		lines = append(lines, "")
	}

	lines = append(lines, ui.PanelTitleStyle.Render(fmt.Sprintf("选题列表 (%d)", len(topics))))

	if m.generating {
		lines = append(lines, ui.SpinnerStyle.Render("⟳ ")+ui.StatusStyle.Render("正在生成选题..."))
	}

	if len(topics) == 0 && !m.generating {
		lines = append(lines, ui.DimStyle.Render("  暂无选题"))
	}

	for i, t := range topics {
		badge := ui.StatusBadge(t.Status)
		var line string
		if i == m.cursor {
			line = ui.SelectedStyle.Render("> "+t.Question) + " " + badge
		} else {
			line = "  " + t.Question + " " + badge
		}
		lines = append(lines, truncateToWidth(line, m.width))
		if i == m.cursor {
			for _, wl := range wrapText(t.Reasoning, max(10, m.width-6)) {
				lines = append(lines, ui.ReasoningStyle.Render("    "+wl))
			}
		}
	}

	if m.addingCustom {
		lines = append(lines, "")
		lines = append(lines, ui.SelectedStyle.Render("自定义选题: ")+m.customInput+"▌")
		lines = append(lines, ui.DimStyle.Render("Enter 添加  Esc 取消"))
	}

	if m.confirmRegen {
		lines = append(lines, "")
		lines = append(lines, ui.ErrorTextStyle.Render("重新生成会替换所有选题和已录内容,再按一次 g 确认"))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderRecording() string {
	var lines []string

	t, ok := m.flow.ActiveTopic()
	if !ok {
		return ui.DimStyle.Render("未选择选题")
	}

	lines = append(lines, ui.PanelTitleStyle.Render("本条选题"))
	for _, wl := range wrapText(t.Question, max(10, m.width-4)) {
		lines = append(lines, "  "+wl)
	}
	lines = append(lines, "")

	// Capture status line
	switch {
	case m.cameraOpening:
		lines = append(lines, ui.SpinnerStyle.Render("⟳ 正在打开摄像头..."))
	case !m.session.HasStream():
		lines = append(lines, ui.ErrorTextStyle.Render("摄像头未就绪"))
	case m.session.Recording():
		lines = append(lines, ui.RecordingDotStyle.Render("● REC")+ui.TimerStyle.Render("  "+formatElapsed(m.elapsed)))
	case m.session.HasFootage():
		lines = append(lines, ui.IdleDotStyle.Render("○ 已停止")+ui.DimStyle.Render("  Enter 提交分析  d 重录"))
	default:
		lines = append(lines, ui.IdleDotStyle.Render("○ 就绪")+ui.DimStyle.Render("  空格开始录制"))
	}

	ratio := "9:16 竖屏"
	if m.aspect == capture.AspectLandscape {
		ratio = "16:9 横屏"
	}
	lines = append(lines, ui.DimStyle.Render("画幅: "+ratio))

	// Speech preview line
	voice := gateway.Presets[m.voiceIndex]
	var speech string
	switch {
	case m.speechLoading:
		speech = ui.SpinnerStyle.Render("⟳ 生成语音中...")
	case m.speech.Playing():
		speech = ui.CompletedBadgeStyle.Render("▶ 正在朗读问题")
	default:
		speech = ui.DimStyle.Render("p 朗读问题")
	}
	lines = append(lines, ui.VoiceLabelStyle.Render("声音: "+voice.Label())+"  "+speech)

	// Teleprompter
	if m.editingScript {
		lines = append(lines, "")
		lines = append(lines, ui.SelectedStyle.Render("提词器内容: ")+m.scriptInput+"▌")
		lines = append(lines, ui.DimStyle.Render("Enter 保存  Esc 取消"))
	} else if t.Script != "" {
		lines = append(lines, "")
		prompter := strings.Join(wrapText(t.Script, max(10, m.width-8)), "\n")
		lines = append(lines, ui.TeleprompterStyle.Render(prompter))
	}

	if t.Status == topic.StatusRecorded && t.Artifact != nil {
		lines = append(lines, "")
		lines = append(lines, ui.ReasoningStyle.Render("上次分析失败,按 y 用已录视频重试"))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderReview() string {
	t, ok := m.flow.ActiveTopic()
	if !ok || t.Analysis == nil {
		return ui.DimStyle.Render("暂无分析结果")
	}
	a := t.Analysis

	var lines []string
	lines = append(lines, ui.PanelTitleStyle.Render("导演复盘")+"  "+ui.StatusBadge(t.Status))
	lines = append(lines, "")

	lines = append(lines, ui.StepLabelStyle.Render("评分")+
		"  流量 "+ui.ScoreStyle(a.Score.Traffic).Render(fmt.Sprintf("%d", a.Score.Traffic))+
		"  获客 "+ui.ScoreStyle(a.Score.Leads).Render(fmt.Sprintf("%d", a.Score.Leads))+
		"  综合 "+ui.ScoreStyle(a.Score.Total).Render(fmt.Sprintf("%d", a.Score.Total)))
	lines = append(lines, "")

	structure := []struct {
		label string
		text  string
	}{
		{"钩子", a.ViralStructure.Hook},
		{"痛点", a.ViralStructure.PainPoint},
		{"方案", a.ViralStructure.Solution},
		{"行动号召", a.ViralStructure.CTA},
	}
	lines = append(lines, ui.StepLabelStyle.Render("爆款结构"))
	for _, part := range structure {
		text := part.text
		if text == "" {
			text = ui.DimStyle.Render("(未覆盖)")
		}
		lines = append(lines, "  "+ui.PanelTitleStyle.Render(part.label+": ")+text)
	}
	lines = append(lines, "")

	lines = append(lines, ui.StepLabelStyle.Render("改进建议"))
	for _, s := range a.Suggestions {
		for j, wl := range wrapText(s, max(10, m.width-6)) {
			if j == 0 {
				lines = append(lines, "  • "+wl)
			} else {
				lines = append(lines, "    "+wl)
			}
		}
	}
	lines = append(lines, "")

	lines = append(lines, ui.StepLabelStyle.Render("转录"))
	for _, wl := range wrapText(a.Transcript, max(10, m.width-4)) {
		lines = append(lines, ui.DimStyle.Render("  "+wl))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter() string {
	key := ui.FooterKeyStyle.Render
	desc := ui.FooterDescStyle.Render

	var parts []string
	switch m.flow.Step() {
	case topic.StepSetup:
		parts = append(parts, key("Enter")+desc(" 下一项"), key("Tab")+desc(" 切换"))
	case topic.StepTopicSelection:
		if m.addingCustom {
			parts = append(parts, key("Enter")+desc(" 添加"), key("Esc")+desc(" 取消"))
		} else {
			parts = append(parts,
				key("j/k")+desc(" 移动"),
				key("Enter")+desc(" 选择"),
				key("a")+desc(" 自定义"),
				key("g")+desc(" 重新生成"),
				key("q")+desc(" 退出"))
		}
	case topic.StepRecording:
		if m.editingScript {
			parts = append(parts, key("Enter")+desc(" 保存"), key("Esc")+desc(" 取消"))
		} else {
			parts = append(parts,
				key("空格")+desc(" 录制/停止"),
				key("Enter")+desc(" 提交分析"),
				key("d")+desc(" 重录"),
				key("p")+desc(" 朗读"),
				key("v")+desc(" 换声音"),
				key("e")+desc(" 提词器"),
				key("r")+desc(" 画幅"),
				key("Esc")+desc(" 返回"))
		}
	case topic.StepReview:
		parts = append(parts, key("Enter")+desc(" 继续"), key("q")+desc(" 退出"))
	}

	return strings.Join(parts, "  ")
}

func formatElapsed(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

// Helpers

func truncateToWidth(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	runes := []rune(s)
	if len(runes) > width-1 {
		return string(runes[:width-1]) + "…"
	}
	return s
}

// wrapText wraps by display width, breaking words that do not fit whole.
// Handles CJK text, which has no word boundaries to split on.
func wrapText(text string, width int) []string {
	if width <= 0 {
		return []string{text}
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		flush := func() {
			if current != "" {
				lines = append(lines, current)
				current = ""
			}
		}
		for _, r := range paragraph {
			rw := lipgloss.Width(string(r))
			if lipgloss.Width(current)+rw > width {
				flush()
			}
			current += string(r)
		}
		if current != "" || paragraph == "" {
			lines = append(lines, current)
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
