package models

import "strings"

// RoomKind categorises rooms by the session type they can host.
type RoomKind string

const (
	RoomKindLecture RoomKind = "LECTURE"
	RoomKindLab     RoomKind = "LAB"
)

// ResolveRoomKind maps free-text room types onto a kind. Lab wins when the
// text mentions both.
func ResolveRoomKind(raw string) (RoomKind, bool) {
	lowered := strings.ToLower(raw)
	if strings.Contains(lowered, "lab") {
		return RoomKindLab, true
	}
	if strings.Contains(lowered, "lecture") {
		return RoomKindLecture, true
	}
	return "", false
}

// Room is a teaching space. ID is the unique roster key.
type Room struct {
	ID   string   `db:"id" json:"id"`
	Type string   `db:"type" json:"type"`
	Kind RoomKind `db:"kind" json:"kind"`
}
