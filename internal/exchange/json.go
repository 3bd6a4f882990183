package exchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"room-occupancy-backend/internal/model"
	"room-occupancy-backend/internal/store"
)

// BackupFileName is the download name of the JSON backup.
const BackupFileName = "backup_salas_senac.json"

// ErrInvalidFormat is returned when an import payload is not a JSON array of
// occupation records.
var ErrInvalidFormat = errors.New("invalid file format")

// DecodeJSON reads a backup file and returns the records tagged with unit.
// Records of other units are dropped silently.
func DecodeJSON(r io.Reader, unit string) ([]model.Occupation, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading backup: %w", err)
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '[' {
		return nil, ErrInvalidFormat
	}

	var occs []model.Occupation
	if err := json.Unmarshal(body, &occs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	return store.FilterUnit(occs, unit), nil
}

// EncodeJSON writes the collection as an indented JSON array.
func EncodeJSON(w io.Writer, occs []model.Occupation) error {
	if occs == nil {
		occs = []model.Occupation{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(occs)
}
