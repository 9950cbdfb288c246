package meeting

import (
	"fmt"
	"strings"
)

// InviteText renders the shareable invitation for a scheduled meeting.
func InviteText(m ScheduledMeeting) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You're invited to: %s\n\n", m.Title)
	fmt.Fprintf(&b, "Date: %s\n", m.Start.Format("Monday, January 2, 2006"))
	fmt.Fprintf(&b, "Time: %s\n", m.Start.Format("3:04 PM"))
	fmt.Fprintf(&b, "Duration: %d minutes\n\n", m.DurationMinutes)
	fmt.Fprintf(&b, "Join Link: %s\n", m.JoinLink)
	fmt.Fprintf(&b, "Room Name: %s\n", m.RoomName)

	if m.Password != "" {
		fmt.Fprintf(&b, "Password: %s\n", m.Password)
	}
	if m.Description != "" {
		fmt.Fprintf(&b, "\nDescription: %s\n", m.Description)
	}

	b.WriteString("\n---\nPowered by ConferenceHub - Free Video Conferencing")
	return b.String()
}

// SessionInviteText renders the short invitation used while a meeting is in
// progress, including the room password when one is registered.
func SessionInviteText(room, joinLink, password string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Join my ConferenceHub meeting!\n\nMeeting Link: %s\nRoom Name: %s", joinLink, room)
	if password != "" {
		fmt.Fprintf(&b, "\nPassword: %s", password)
	}
	return b.String()
}
