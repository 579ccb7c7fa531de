package collab

import (
	"slices"
	"strings"
	"sync"
)

// PresenceManager tracks who is connected to a room.
type PresenceManager struct {
	mu      sync.RWMutex
	members map[string]Member // clientID -> member
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		members: make(map[string]Member),
	}
}

func (pm *PresenceManager) Add(m Member) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.members[m.ClientID] = m
}

func (pm *PresenceManager) Remove(clientID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.members, clientID)
}

// Members returns the connected members ordered by client id.
func (pm *PresenceManager) Members() []Member {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	out := make([]Member, 0, len(pm.members))
	for _, m := range pm.members {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b Member) int { return strings.Compare(a.ClientID, b.ClientID) })
	return out
}

func (pm *PresenceManager) StateMessage() (*Message, error) {
	return newMessage(TypePresenceState, PresenceStatePayload{Members: pm.Members()})
}
