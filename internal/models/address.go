package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/tracklab/internal/shared"
)

// Address is the unique, immutable address of a [Composition].
//
// It holds either a normalized opaque code or a store-assigned sequence number, never both.
// The zero value is "no address yet".
type Address struct {
	code string
	seq  int64
}

// CodeAddress returns an [Address] for an already-normalized opaque code.
func CodeAddress(code string) Address {
	return Address{code: code}
}

// SequenceAddress returns an [Address] for a store-assigned sequence number.
func SequenceAddress(n int64) Address {
	return Address{seq: n}
}

// IsZero reports whether the address has not been assigned.
func (a Address) IsZero() bool {
	return a.code == "" && a.seq == 0
}

// IsSequence reports whether the address is a sequence number.
func (a Address) IsSequence() bool {
	return a.code == "" && a.seq != 0
}

// Code returns the opaque code, or "" for sequence addresses.
func (a Address) Code() string { return a.code }

// Seq returns the sequence number, or 0 for code addresses.
func (a Address) Seq() int64 { return a.seq }

func (a Address) String() string {
	if a.IsSequence() {
		return strconv.FormatInt(a.seq, 10)
	}
	return a.code
}

// Value implements [driver.Valuer]: codes bind as text, sequence numbers as integers.
func (a Address) Value() (driver.Value, error) {
	switch {
	case a.IsZero():
		return nil, nil
	case a.IsSequence():
		return a.seq, nil
	default:
		return a.code, nil
	}
}

// Scan implements [sql.Scanner].
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Address{}
	case int64:
		*a = SequenceAddress(v)
	case int32:
		*a = SequenceAddress(int64(v))
	case string:
		*a = CodeAddress(v)
	case []byte:
		*a = CodeAddress(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Address", src)
	}
	return nil
}

// MarshalJSON encodes codes as JSON strings and sequence numbers as JSON numbers.
func (a Address) MarshalJSON() ([]byte, error) {
	switch {
	case a.IsZero():
		return []byte("null"), nil
	case a.IsSequence():
		return []byte(strconv.FormatInt(a.seq, 10)), nil
	default:
		return json.Marshal(a.code)
	}
}

// UnmarshalJSON accepts a JSON string (code), a JSON integer (sequence), or null.
func (a *Address) UnmarshalJSON(b []byte) error {
	raw, isNumber, err := rawAddress(b)
	if err != nil {
		return err
	}
	if !isNumber {
		*a = CodeAddress(raw)
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("address %s is not an integer: %w", raw, err)
	}
	*a = SequenceAddress(n)
	return nil
}

// rawAddress extracts the textual form of a JSON id that may be a string, a number, or null.
func rawAddress(b []byte) (string, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return "", false, nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return "", false, err
		}
		return s, false, nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return "", false, fmt.Errorf("id must be a string or a number: %w", err)
	}
	return n.String(), true, nil
}

// Kind names an identity strategy.
type Kind string

const (
	KindCode       Kind = "code"       // caller-chosen opaque codes, upsert on save
	KindSequential Kind = "sequential" // store-assigned integers, insert on save
)

// Strategy decides how a composition acquires its [Address].
//
// Strategies are selected per deployment, never per request.
type Strategy interface {
	Kind() Kind
	// Parse validates and normalizes a caller-supplied address for point operations.
	Parse(raw string) (Address, error)
	// Mint returns the address a save will write. The zero [Address] means the backing engine assigns it.
	Mint(requested string) (Address, error)
	// Column returns the DDL for the id column in the given dialect.
	Column(d shared.Dialect) string
}

// NewStrategy returns the [Strategy] registered under kind.
func NewStrategy(kind string) (Strategy, error) {
	switch Kind(kind) {
	case KindCode:
		return CodeStrategy{}, nil
	case KindSequential:
		return SequentialStrategy{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown identity strategy %q", shared.ErrInvalidConfig, kind)
	}
}

// CodeStrategy accepts caller-chosen opaque codes, normalized to uppercase.
//
// Length is not enforced here; transports may pre-filter.
type CodeStrategy struct{}

func (CodeStrategy) Kind() Kind { return KindCode }

func (CodeStrategy) Parse(raw string) (Address, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return Address{}, shared.ErrMissingIdentity
	}
	return CodeAddress(code), nil
}

func (s CodeStrategy) Mint(requested string) (Address, error) {
	return s.Parse(requested)
}

func (CodeStrategy) Column(shared.Dialect) string {
	return "TEXT PRIMARY KEY NOT NULL"
}

// SequentialStrategy lets the backing engine assign strictly increasing, never reused integers.
type SequentialStrategy struct{}

func (SequentialStrategy) Kind() Kind { return KindSequential }

func (SequentialStrategy) Parse(raw string) (Address, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || n <= 0 {
		return Address{}, fmt.Errorf("%w: %q is not a sequence number", shared.ErrInvalidAddress, raw)
	}
	return SequenceAddress(n), nil
}

// Mint ignores the requested address.
func (SequentialStrategy) Mint(string) (Address, error) {
	return Address{}, nil
}

func (SequentialStrategy) Column(d shared.Dialect) string {
	if d == shared.DialectPostgres {
		return "BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY"
	}
	return "INTEGER PRIMARY KEY AUTOINCREMENT"
}
