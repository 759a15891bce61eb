package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Core palette
	Green       = lipgloss.Color("#00FF41")
	BrightGreen = lipgloss.Color("#39FF14")
	MedGreen    = lipgloss.Color("#00C832")
	DarkGreen   = lipgloss.Color("#008F11")
	DimGreen    = lipgloss.Color("#2F6B2F")
	Cyan        = lipgloss.Color("#00D4AA")
	Amber       = lipgloss.Color("#FFB000")
	Purple      = lipgloss.Color("#B48EAD")
	Black       = lipgloss.Color("#0D0208")
	MidGray     = lipgloss.Color("#3a3a4e")
	LightGray   = lipgloss.Color("#aaaaaa")
	White       = lipgloss.Color("#e0e0e0")
	Red         = lipgloss.Color("#FF4136")

	bannerGradient = []lipgloss.Color{BrightGreen, Green, MedGreen, Cyan, DarkGreen}

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(DarkGreen).
			Foreground(Black).
			Bold(true).
			Padding(0, 1)

	StatusProviderStyle = lipgloss.NewStyle().
				Background(Green).
				Foreground(Black).
				Bold(true).
				Padding(0, 1)

	RoleHeaderStyle = lipgloss.NewStyle().Bold(true)

	// User messages
	UserLabelStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	UserMsgStyle = lipgloss.NewStyle().
			Foreground(Green)

	UserBlockStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(DarkGreen).
			PaddingLeft(1).
			MarginBottom(1)

	// Assistant messages
	AssistantMsgStyle = lipgloss.NewStyle().
				Foreground(White)

	AssistantBlockStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, false, true).
				BorderForeground(Cyan).
				PaddingLeft(1).
				MarginBottom(1)

	// Source tag on replies from the language model
	SourceTagStyle = lipgloss.NewStyle().
			Foreground(Purple).
			Italic(true)

	SystemMsgStyle = lipgloss.NewStyle().
			Foreground(LightGray)

	CommandStyle = lipgloss.NewStyle().
			Foreground(BrightGreen).
			Bold(true)

	InputBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 1)

	ViewportStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	MenuBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(DarkGreen).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(BrightGreen)

	BannerStyle = lipgloss.NewStyle().
			Foreground(Green).
			Bold(true)

	SuccessStyle = lipgloss.NewStyle().
			Foreground(Green)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(Red).
			Bold(true)

	HelpStyle = lipgloss.NewStyle().
			Foreground(DimGreen)
)

const Banner = `
 ████████╗██╗   ██╗██╗   ██╗███╗   ██╗
 ╚══██╔══╝██║   ██║╚██╗ ██╔╝████╗  ██║
    ██║   ██║   ██║ ╚████╔╝ ██╔██╗ ██║
    ██║   ╚██╗ ██╔╝  ╚██╔╝  ██║╚██╗██║
    ██║    ╚████╔╝    ██║   ██║ ╚████║
    ╚═╝     ╚═══╝     ╚═╝   ╚═╝  ╚═══╝
`

// GradientBanner colours each banner line with the next step of the palette.
func GradientBanner() string {
	lines := strings.Split(strings.Trim(Banner, "\n"), "\n")
	var b strings.Builder
	for i, line := range lines {
		style := lipgloss.NewStyle().Foreground(bannerGradient[i%len(bannerGradient)]).Bold(true)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
