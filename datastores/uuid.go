package datastores

import (
	_ "encoding" // for documentation links to [encoding]
	"encoding/base64"
	"errors"

	"github.com/google/uuid"
)

// ContactID is a [uuid.UUID] that uses [base64.RawURLEncoding]
// to marshal to and from text.
type ContactID uuid.UUID

var errInvalidIDLength = errors.New("invalid length")

func NewContactID() ContactID { return ContactID(uuid.Must(uuid.NewV7())) }

// ParseContactID decodes the text form of a [ContactID].
func ParseContactID(s string) (ContactID, error) {
	var id ContactID
	return id, id.UnmarshalText([]byte(s))
}

func (*ContactID) encoding() *base64.Encoding { return base64.RawURLEncoding }

func (id *ContactID) encodedLen() int {
	return id.encoding().EncodedLen(len(id))
}

func (id ContactID) IsZero() bool { return id == ContactID{} }

func (id ContactID) String() string {
	b, _ := id.AppendText(nil)
	return string(b)
}

// AppendText implements [encoding.TextAppender].
func (id ContactID) AppendText(b []byte) ([]byte, error) {
	return id.encoding().AppendEncode(b, id[:]), nil
}

// MarshalText implements [encoding.TextMarshaler].
func (id ContactID) MarshalText() ([]byte, error) {
	return id.AppendText(nil)
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (id *ContactID) UnmarshalText(b []byte) error {
	if len(b) != id.encodedLen() {
		return errInvalidIDLength
	}
	_, err := id.encoding().Decode(id[:], b)
	return err
}
