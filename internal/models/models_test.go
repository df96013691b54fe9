package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/desertthunder/tracklab/internal/shared"
)

func TestCodeStrategy(t *testing.T) {
	tt := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "uppercases", raw: "ab12cd", want: "AB12CD"},
		{name: "trims whitespace", raw: "  xyz789 ", want: "XYZ789"},
		{name: "any length is accepted", raw: "longer-than-six", want: "LONGER-THAN-SIX"},
		{name: "empty", raw: "", wantErr: shared.ErrMissingIdentity},
		{name: "blank", raw: "   ", wantErr: shared.ErrMissingIdentity},
	}

	s := CodeStrategy{}
	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			addr, err := s.Mint(tc.raw)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Mint(%q) error = %v, want %v", tc.raw, err, tc.wantErr)
			}
			if tc.wantErr != nil {
				return
			}
			if addr.String() != tc.want || addr.IsSequence() {
				t.Errorf("Mint(%q) = %v, want code %s", tc.raw, addr, tc.want)
			}
		})
	}
}

func TestSequentialStrategy(t *testing.T) {
	s := SequentialStrategy{}

	t.Run("Mint leaves assignment to the engine", func(t *testing.T) {
		addr, err := s.Mint("42")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !addr.IsZero() {
			t.Errorf("expected zero address, got %v", addr)
		}
	})

	t.Run("Parse", func(t *testing.T) {
		addr, err := s.Parse(" 17 ")
		if err != nil || addr.Seq() != 17 {
			t.Errorf("Parse(17) = %v, %v", addr, err)
		}

		for _, raw := range []string{"", "abc", "0", "-3", "9999999999999999999999"} {
			if _, err := s.Parse(raw); !errors.Is(err, shared.ErrInvalidAddress) {
				t.Errorf("Parse(%q) error = %v, want ErrInvalidAddress", raw, err)
			}
		}
	})

	t.Run("Column", func(t *testing.T) {
		if got := s.Column(shared.DialectSQLite); got != "INTEGER PRIMARY KEY AUTOINCREMENT" {
			t.Errorf("sqlite column = %q", got)
		}
	})
}

func TestNewStrategy(t *testing.T) {
	if s, err := NewStrategy("code"); err != nil || s.Kind() != KindCode {
		t.Errorf("NewStrategy(code) = %v, %v", s, err)
	}
	if s, err := NewStrategy("sequential"); err != nil || s.Kind() != KindSequential {
		t.Errorf("NewStrategy(sequential) = %v, %v", s, err)
	}
	if _, err := NewStrategy("uuid"); !errors.Is(err, shared.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAddress(t *testing.T) {
	t.Run("JSON shape follows the strategy", func(t *testing.T) {
		tt := []struct {
			addr Address
			want string
		}{
			{CodeAddress("AB12CD"), `"AB12CD"`},
			{CodeAddress("123"), `"123"`},
			{SequenceAddress(7), `7`},
			{Address{}, `null`},
		}
		for _, tc := range tt {
			got, err := json.Marshal(tc.addr)
			if err != nil {
				t.Fatalf("marshal: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Marshal(%v) = %s, want %s", tc.addr, got, tc.want)
			}

			var back Address
			if err := json.Unmarshal(got, &back); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if back != tc.addr {
				t.Errorf("Unmarshal(%s) = %#v, want %#v", got, back, tc.addr)
			}
		}
	})

	t.Run("Scan", func(t *testing.T) {
		var a Address
		if err := a.Scan(int64(3)); err != nil || a.Seq() != 3 {
			t.Errorf("Scan(int64) = %#v, %v", a, err)
		}
		if err := a.Scan([]byte("ABC")); err != nil || a.Code() != "ABC" {
			t.Errorf("Scan([]byte) = %#v, %v", a, err)
		}
		if err := a.Scan(3.5); err == nil {
			t.Error("expected error scanning a float")
		}
	})

	t.Run("Value", func(t *testing.T) {
		v, _ := SequenceAddress(5).Value()
		if v != int64(5) {
			t.Errorf("Value() = %#v, want int64(5)", v)
		}
		v, _ = CodeAddress("X").Value()
		if v != "X" {
			t.Errorf("Value() = %#v, want \"X\"", v)
		}
	})
}

func TestTracks(t *testing.T) {
	tt := []struct {
		name    string
		body    string
		want    Tracks
		wantErr bool
	}{
		{name: "json string", body: `{"tracks":"[{\"a\":1}]"}`, want: `[{"a":1}]`},
		{name: "raw array is kept verbatim", body: `{"tracks":[ {"a": 1},  2 ]}`, want: `[ {"a": 1},  2 ]`},
		{name: "raw object is kept verbatim", body: `{"tracks":{"b" :true}}`, want: `{"b" :true}`},
		{name: "null", body: `{"tracks":null}`, want: ""},
		{name: "number is rejected", body: `{"tracks":12}`, wantErr: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			var v struct {
				Tracks Tracks `json:"tracks"`
			}
			err := json.Unmarshal([]byte(tc.body), &v)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Unmarshal error = %v, wantErr %v", err, tc.wantErr)
			}
			if !tc.wantErr && v.Tracks != tc.want {
				t.Errorf("Tracks = %q, want %q", v.Tracks, tc.want)
			}
		})
	}

	t.Run("encodes as a JSON string", func(t *testing.T) {
		got, err := json.Marshal(Tracks(`[1,"two"]`))
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		if string(got) != `"[1,\"two\"]"` {
			t.Errorf("Marshal = %s", got)
		}
	})
}

func TestDraft(t *testing.T) {
	t.Run("accepts string and numeric ids", func(t *testing.T) {
		for body, want := range map[string]string{
			`{"id":"abc123","name":"n","tracks":"[]"}`: "abc123",
			`{"id":12,"name":"n","tracks":"[]"}`:       "12",
			`{"name":"n","tracks":"[]"}`:               "",
		} {
			var d Draft
			if err := json.Unmarshal([]byte(body), &d); err != nil {
				t.Fatalf("Unmarshal(%s): %v", body, err)
			}
			if d.ID != want {
				t.Errorf("Unmarshal(%s).ID = %q, want %q", body, d.ID, want)
			}
		}
	})

	t.Run("rejects non-scalar ids", func(t *testing.T) {
		var d Draft
		if err := json.Unmarshal([]byte(`{"id":true,"name":"n","tracks":"[]"}`), &d); err == nil {
			t.Error("expected error for boolean id")
		}
	})

	t.Run("Validate", func(t *testing.T) {
		if err := (Draft{Name: "n", Tracks: "[]"}).Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		err := (Draft{}).Validate()
		if !errors.Is(err, shared.ErrMissingFields) {
			t.Fatalf("expected ErrMissingFields, got %v", err)
		}
		if err.Error() != "missing required fields: name, tracks" {
			t.Errorf("unexpected message: %v", err)
		}
	})
}
