package membership

import (
	"crypto/rand"
	"encoding/base64"
)

// invitationTokenBytes is the entropy of an invitation token. Tokens
// gate membership grants, so they must be unguessable.
const invitationTokenBytes = 32

func generateInvitationToken() (string, error) {
	b := make([]byte, invitationTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
