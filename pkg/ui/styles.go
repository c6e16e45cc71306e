package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/go-go-golems/hotel-chat/pkg/transcript"
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("246")).Italic(true)
	noticeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	connectedPill  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("34")).Padding(0, 1)
	reconnectPill  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("214")).Padding(0, 1)
	disconnectPill = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("160")).Padding(0, 1)

	hotelHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	hotelNameStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("111"))
	hotelStarsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	hotelPriceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("117"))
	hotelMutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
	amenityStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	toggleStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("111")).Underline(true)
	hotelCardStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	focusedCardStyle = hotelCardStyle.BorderForeground(lipgloss.Color("111"))
)

type roleStyle struct {
	label  lipgloss.Style
	bubble lipgloss.Style
}

var (
	userRole = roleStyle{
		label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("33")),
		bubble: lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("33")).PaddingLeft(1),
	}
	assistantRole = roleStyle{
		label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
		bubble: lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("135")).PaddingLeft(1),
	}
	systemRole = roleStyle{
		label:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		bubble: lipgloss.NewStyle().Border(lipgloss.ThickBorder(), false, false, false, true).BorderForeground(lipgloss.Color("208")).PaddingLeft(1),
	}
)

// styleFor falls back to the assistant treatment for roles it does not know.
func styleFor(role transcript.Role) roleStyle {
	switch role {
	case transcript.RoleUser:
		return userRole
	case transcript.RoleSystem:
		return systemRole
	default:
		return assistantRole
	}
}
