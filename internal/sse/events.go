// Package sse implements Server-Sent Events for pushing tag and module
// changes to connected study panels.
package sse

import (
	"time"

	"github.com/lampstandapp/lampstand-server/internal/domain"
)

// Lampstand runs next to a single desktop client, but a study session may
// have several panels open (reading pane, tag panel, word study). SSE keeps
// them in sync without polling.

// EventType represents the type of SSE Event.
type EventType string

const (
	// EventTagCreated represents a tag creation event.
	EventTagCreated EventType = "tag.created"
	// EventTagRenamed represents a tag rename event.
	EventTagRenamed EventType = "tag.renamed"
	// EventTagDeleted represents a tag deletion event.
	EventTagDeleted EventType = "tag.deleted"
	// EventTagAssigned represents verses gaining a tag.
	EventTagAssigned EventType = "tag.assigned"
	// EventTagUnassigned represents verses losing a tag.
	EventTagUnassigned EventType = "tag.unassigned"

	// EventLatestTagChanged fires when the most recently used tag changes.
	// Clients use it to refresh the "recent" filter section.
	EventLatestTagChanged EventType = "latest_tag.changed"

	// EventTagGroupCreated represents a tag group creation event.
	EventTagGroupCreated EventType = "tag_group.created"
	// EventTagGroupRenamed represents a tag group rename event.
	EventTagGroupRenamed EventType = "tag_group.renamed"
	// EventTagGroupDeleted represents a tag group deletion event.
	EventTagGroupDeleted EventType = "tag_group.deleted"
	// EventTagGroupMembershipChanged fires when a tag joins or leaves groups.
	EventTagGroupMembershipChanged EventType = "tag_group.membership_changed"

	// EventModulesChanged fires when the installed text module set changes.
	EventModulesChanged EventType = "modules.changed"

	// EventHeartbeat represents a connection keepalive event.
	EventHeartbeat EventType = "heartbeat"
)

// Event represents an SSE event to be sent to clients.
// The Data field contains the event payload as a JSON object for direct
// deserialization.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Type      EventType `json:"type"`
}

// TagEventData is the data payload for tag create/rename events.
type TagEventData struct {
	Tag *domain.Tag `json:"tag"`
}

// TagDeletedEventData is the data payload for tag delete events.
type TagDeletedEventData struct {
	DeletedAt time.Time `json:"deleted_at"`
	TagID     string    `json:"tag_id"`
	// Permanent is false when the tag was only detached from a group.
	Permanent bool `json:"permanent"`
}

// AssignmentEventData is the data payload for assign/unassign events.
// Verses lists only the refs whose state actually changed.
type AssignmentEventData struct {
	TagID  string            `json:"tag_id"`
	Verses []domain.VerseRef `json:"verses"`
}

// LatestTagEventData is the data payload for latest_tag.changed events.
type LatestTagEventData struct {
	TagID string `json:"tag_id"`
}

// TagGroupEventData is the data payload for tag group events.
type TagGroupEventData struct {
	Group *domain.TagGroup `json:"group"`
}

// MembershipEventData is the data payload for membership change events.
type MembershipEventData struct {
	TagID    string   `json:"tag_id"`
	GroupIDs []string `json:"group_ids"`
}

// ModulesChangedEventData is the data payload for modules.changed events.
type ModulesChangedEventData struct {
	ModuleIDs []string `json:"module_ids"`
}

// HeartbeatEventData is the data payload for heartbeat events.
type HeartbeatEventData struct {
	ServerTime time.Time `json:"server_time"`
}

// NewTagCreatedEvent creates a tag.created event.
func NewTagCreatedEvent(tag *domain.Tag) Event {
	return Event{
		Type:      EventTagCreated,
		Timestamp: time.Now(),
		Data:      TagEventData{Tag: tag},
	}
}

// NewTagRenamedEvent creates a tag.renamed event.
func NewTagRenamedEvent(tag *domain.Tag) Event {
	return Event{
		Type:      EventTagRenamed,
		Timestamp: time.Now(),
		Data:      TagEventData{Tag: tag},
	}
}

// NewTagDeletedEvent creates a tag.deleted event.
func NewTagDeletedEvent(tagID string, permanent bool) Event {
	return Event{
		Type:      EventTagDeleted,
		Timestamp: time.Now(),
		Data: TagDeletedEventData{
			TagID:     tagID,
			Permanent: permanent,
			DeletedAt: time.Now(),
		},
	}
}

// NewTagAssignedEvent creates a tag.assigned event.
func NewTagAssignedEvent(tagID string, verses []domain.VerseRef) Event {
	return Event{
		Type:      EventTagAssigned,
		Timestamp: time.Now(),
		Data:      AssignmentEventData{TagID: tagID, Verses: verses},
	}
}

// NewTagUnassignedEvent creates a tag.unassigned event.
func NewTagUnassignedEvent(tagID string, verses []domain.VerseRef) Event {
	return Event{
		Type:      EventTagUnassigned,
		Timestamp: time.Now(),
		Data:      AssignmentEventData{TagID: tagID, Verses: verses},
	}
}

// NewLatestTagChangedEvent creates a latest_tag.changed event.
func NewLatestTagChangedEvent(tagID string) Event {
	return Event{
		Type:      EventLatestTagChanged,
		Timestamp: time.Now(),
		Data:      LatestTagEventData{TagID: tagID},
	}
}

// NewTagGroupCreatedEvent creates a tag_group.created event.
func NewTagGroupCreatedEvent(group *domain.TagGroup) Event {
	return Event{
		Type:      EventTagGroupCreated,
		Timestamp: time.Now(),
		Data:      TagGroupEventData{Group: group},
	}
}

// NewTagGroupRenamedEvent creates a tag_group.renamed event.
func NewTagGroupRenamedEvent(group *domain.TagGroup) Event {
	return Event{
		Type:      EventTagGroupRenamed,
		Timestamp: time.Now(),
		Data:      TagGroupEventData{Group: group},
	}
}

// NewTagGroupDeletedEvent creates a tag_group.deleted event.
func NewTagGroupDeletedEvent(groupID string) Event {
	return Event{
		Type:      EventTagGroupDeleted,
		Timestamp: time.Now(),
		Data:      map[string]string{"group_id": groupID},
	}
}

// NewMembershipChangedEvent creates a tag_group.membership_changed event.
func NewMembershipChangedEvent(tagID string, groupIDs []string) Event {
	return Event{
		Type:      EventTagGroupMembershipChanged,
		Timestamp: time.Now(),
		Data:      MembershipEventData{TagID: tagID, GroupIDs: groupIDs},
	}
}

// NewModulesChangedEvent creates a modules.changed event.
func NewModulesChangedEvent(moduleIDs []string) Event {
	return Event{
		Type:      EventModulesChanged,
		Timestamp: time.Now(),
		Data:      ModulesChangedEventData{ModuleIDs: moduleIDs},
	}
}

// NewHeartbeatEvent creates a heartbeat event.
func NewHeartbeatEvent() Event {
	return Event{
		Type:      EventHeartbeat,
		Timestamp: time.Now(),
		Data:      HeartbeatEventData{ServerTime: time.Now()},
	}
}
