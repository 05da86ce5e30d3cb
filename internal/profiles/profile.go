// Package profiles holds the rider profile shown in the app header, one row
// per user, keyed by the user id.
package profiles

import "time"

type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
