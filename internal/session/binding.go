package session

// Binding ties a live connection to the room it joined. Created on a
// successful join and carried by the connection handler so identity
// never hangs implicitly off the transport object.
type Binding struct {
	ConnectionID string
	RoomID       string
	DisplayName  string
	Color        string
}
