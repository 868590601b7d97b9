package mqtt

// Topic layout for the placegrid event bus:
//
//	placegrid/core/profile/{id}/{created|updated|deleted}   lifecycle events
//	placegrid/system/status                                  service presence (retained, LWT)
//	placegrid/system/shutdown                                coordinated shutdown signal
//
// Profile IDs in topics are the registry UUIDs, so a consumer that sees
// an event can fetch current state from /api/v1/profiles/{id}.
const (
	TopicPrefix       = "placegrid"
	TopicPrefixCore   = "placegrid/core"
	TopicPrefixSystem = "placegrid/system"
)

// Topics builds bus topic strings. Go through these helpers instead of
// concatenating by hand so the layout stays in one place.
type Topics struct{}

// ProfileCreated is published after a profile is stored.
func (Topics) ProfileCreated(profileID string) string {
	return TopicPrefixCore + "/profile/" + profileID + "/created"
}

// ProfileUpdated is published after a profile changes.
func (Topics) ProfileUpdated(profileID string) string {
	return TopicPrefixCore + "/profile/" + profileID + "/updated"
}

// ProfileDeleted is published after a profile is removed.
func (Topics) ProfileDeleted(profileID string) string {
	return TopicPrefixCore + "/profile/" + profileID + "/deleted"
}

// ProfileEvents matches every event for one profile
// (placegrid/core/profile/{id}/+).
func (Topics) ProfileEvents(profileID string) string {
	return TopicPrefixCore + "/profile/" + profileID + "/+"
}

// AllProfileEvents matches every profile lifecycle event
// (placegrid/core/profile/+/+).
func (Topics) AllProfileEvents() string {
	return TopicPrefixCore + "/profile/+/+"
}

// SystemStatus carries the retained online/offline presence message,
// including the broker-published last will.
func (Topics) SystemStatus() string {
	return TopicPrefixSystem + "/status"
}

// SystemShutdown signals a coordinated shutdown to placegrid services.
func (Topics) SystemShutdown() string {
	return TopicPrefixSystem + "/shutdown"
}

// AllTopics matches all placegrid traffic (placegrid/#). Heavy; meant
// for debugging subscribers only.
func (Topics) AllTopics() string {
	return TopicPrefix + "/#"
}
