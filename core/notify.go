package core

// Notification is a structured fact handed off to the real-time transport
// after a successful mutation.
type Notification struct {
	Type  string `json:"type"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Link  string `json:"link,omitempty"`
}

// Audience addresses a notification to one user, a set of users, a room or
// everyone. The zero value addresses no one.
type Audience struct {
	UserIDs []string
	Room    string
	All     bool
}

func ToUser(id string) Audience      { return Audience{UserIDs: []string{id}} }
func ToUsers(ids ...string) Audience { return Audience{UserIDs: ids} }
func ToRoom(room string) Audience    { return Audience{Room: room} }
func ToAll() Audience                { return Audience{All: true} }

// Notifier delivers notifications to connected clients. Delivery is
// fire-and-forget; a failed delivery never fails the triggering mutation.
type Notifier interface {
	Broadcast(n Notification, aud Audience)
}
