package id_test

import (
	"strings"
	"testing"

	"github.com/xraph/storefront/id"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		newFn  func() id.ID
		prefix string
	}{
		{"SessionID", id.NewSessionID, "sess_"},
		{"EventID", id.NewEventID, "evt_"},
		{"RecordID", id.NewRecordID, "rec_"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.newFn().String()
			if !strings.HasPrefix(got, tt.prefix) {
				t.Errorf("expected prefix %q, got %q", tt.prefix, got)
			}
		})
	}
}

func TestNew(t *testing.T) {
	i := id.New(id.PrefixEvent)
	if i.IsNil() {
		t.Fatal("expected non-nil ID")
	}
	if i.Prefix() != id.PrefixEvent {
		t.Errorf("expected prefix %q, got %q", id.PrefixEvent, i.Prefix())
	}
}

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		newFn   func() id.ID
		parseFn func(string) (id.ID, error)
	}{
		{"SessionID", id.NewSessionID, id.ParseSessionID},
		{"EventID", id.NewEventID, id.ParseEventID},
		{"RecordID", id.NewRecordID, id.ParseRecordID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			original := tt.newFn()
			parsed, err := tt.parseFn(original.String())
			if err != nil {
				t.Fatalf("parse failed: %v", err)
			}
			if parsed.String() != original.String() {
				t.Errorf("round-trip mismatch: %q != %q", parsed.String(), original.String())
			}
		})
	}
}

func TestCrossTypeRejection(t *testing.T) {
	eventID := id.NewEventID()
	if _, err := id.ParseRecordID(eventID.String()); err == nil {
		t.Error("expected prefix mismatch error parsing event ID as record ID")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []string{"", "not-a-typeid", "evt_!!!", "_01h2xcejqtf2nbrexx3vqjhp41"}

	for _, input := range tests {
		if _, err := id.Parse(input); err == nil {
			t.Errorf("expected error parsing %q", input)
		}
	}
}

func TestNilID(t *testing.T) {
	var nilID id.ID
	if !nilID.IsNil() {
		t.Error("zero value should be nil")
	}
	if nilID.String() != "" {
		t.Errorf("nil ID should render empty, got %q", nilID.String())
	}

	data, err := nilID.MarshalText()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("nil ID should marshal empty, got %q", data)
	}
}

func TestTextRoundTrip(t *testing.T) {
	original := id.NewSessionID()
	data, err := original.MarshalText()
	if err != nil {
		t.Fatal(err)
	}

	var decoded id.ID
	if err := decoded.UnmarshalText(data); err != nil {
		t.Fatal(err)
	}
	if decoded.String() != original.String() {
		t.Errorf("round-trip mismatch: %q != %q", decoded.String(), original.String())
	}
}

func TestScanValue(t *testing.T) {
	original := id.NewRecordID()
	v, err := original.Value()
	if err != nil {
		t.Fatal(err)
	}

	var scanned id.ID
	if err := scanned.Scan(v); err != nil {
		t.Fatal(err)
	}
	if scanned.String() != original.String() {
		t.Errorf("scan mismatch: %q != %q", scanned.String(), original.String())
	}

	var fromNull id.ID
	if err := fromNull.Scan(nil); err != nil {
		t.Fatal(err)
	}
	if !fromNull.IsNil() {
		t.Error("scanning NULL should produce the nil ID")
	}
}
