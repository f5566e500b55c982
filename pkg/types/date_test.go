package types

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateFormats(t *testing.T) {
	cases := map[string]Date{
		"2024-01-15":                NewDate(2024, time.January, 15),
		"2024-03-20T00:00:00Z":      NewDate(2024, time.March, 20),
		"2024-03-20T23:30:00+07:00": NewDate(2024, time.March, 20),
		"  ":                        {},
	}
	for in, want := range cases {
		got, err := ParseDate(in)
		if err != nil {
			t.Fatalf("ParseDate(%q) unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDate(%q) = %v want %v", in, got, want)
		}
	}
	if _, err := ParseDate("15/01/2024"); err == nil {
		t.Fatalf("expected error for unsupported layout")
	}
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Start Date `json:"start_date"`
		End   Date `json:"end_date"`
	}
	if err := json.Unmarshal([]byte(`{"start_date":"2024-01-15","end_date":null}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if payload.Start.String() != "2024-01-15" || !payload.End.IsZero() {
		t.Fatalf("unexpected decode %+v", payload)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"start_date":"2024-01-15","end_date":null}` {
		t.Fatalf("unexpected encode %s", out)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan("2024-02-29 00:00:00"); err != nil {
		t.Fatalf("scan string: %v", err)
	}
	if d != NewDate(2024, time.February, 29) {
		t.Fatalf("unexpected scan result %v", d)
	}
	if err := d.Scan(nil); err != nil || !d.IsZero() {
		t.Fatalf("nil scan should reset date, got %v %v", d, err)
	}
	if err := d.Scan(42); err == nil {
		t.Fatalf("expected unsupported type error")
	}
}

func TestDateBefore(t *testing.T) {
	a := NewDate(2024, time.January, 31)
	b := NewDate(2024, time.February, 1)
	if !a.Before(b) || b.Before(a) {
		t.Fatalf("ordering broken for %v and %v", a, b)
	}
}
