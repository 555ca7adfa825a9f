package dataset

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestValueString(t *testing.T) {
	if got := Num(1).String(); got != "1" {
		t.Fatalf("expected 1, got %q", got)
	}
	if got := Num(2.5).String(); got != "2.5" {
		t.Fatalf("expected 2.5, got %q", got)
	}
	if got := Absent().String(); got != "" {
		t.Fatalf("expected empty string for absent, got %q", got)
	}
	if !Num(math.NaN()).IsAbsent() {
		t.Fatalf("expected NaN to be stored as absent")
	}
}

func TestDecodePayloadNullsAndStrings(t *testing.T) {
	p, err := DecodePayload([]byte(`{"lat":[1,null,3],"thr":["10","20","x"]}`))
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	lat := p["lat"]
	if len(lat) != 3 || !lat[1].IsAbsent() {
		t.Fatalf("expected gap at index 1, got %v", lat)
	}
	if f, ok := p["thr"][1].Float(); !ok || f != 20 {
		t.Fatalf("expected numeric string to decode, got %v %v", f, ok)
	}
	if !p["thr"][2].IsAbsent() {
		t.Fatalf("expected non-numeric string to decode as absent")
	}
}

func TestDecodePayloadRejectsObjects(t *testing.T) {
	_, err := DecodePayload([]byte(`{"lat":[{"a":1}]}`))
	if err == nil {
		t.Fatal("expected error for object cell")
	}
}

func TestAbsentMarshalsAsNull(t *testing.T) {
	data, err := Absent().MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if string(data) != "null" {
		t.Fatalf("expected null, got %s", data)
	}
}

func TestOutOfRangeNumberIsAbsent(t *testing.T) {
	p, err := DecodePayload([]byte(`{"big":[1e400, 2, -1e400, 1e-400]}`))
	if err != nil {
		t.Fatalf("DecodePayload error: %v", err)
	}
	got := []string{p["big"][0].String(), p["big"][1].String(), p["big"][2].String(), p["big"][3].String()}
	if diff := cmp.Diff([]string{"", "2", "", "0"}, got); diff != "" {
		t.Fatalf("unexpected cells (-want +got):\n%s", diff)
	}
}

func TestValueUnmarshalYAML(t *testing.T) {
	var f Frame
	doc := "timestamps: [t0, t1, t2]\nmetrics:\n  lat: [1, ~, 3.5]\n"
	if err := yaml.Unmarshal([]byte(doc), &f); err != nil {
		t.Fatalf("yaml error: %v", err)
	}
	if len(f.Metrics["lat"]) != 3 {
		t.Fatalf("expected nulls to keep their index, got %d values", len(f.Metrics["lat"]))
	}
	want := []string{"1", "", "3.5"}
	got := []string{f.Metrics["lat"][0].String(), f.Metrics["lat"][1].String(), f.Metrics["lat"][2].String()}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected cells (-want +got):\n%s", diff)
	}
}

func TestLookupPadsUnknownAndShortSeries(t *testing.T) {
	p := Payload{"short": FromFloats(1)}
	if got := p.Lookup("missing", 3); len(got) != 3 || !got[0].IsAbsent() || !got[2].IsAbsent() {
		t.Fatalf("expected 3 absent values, got %v", got)
	}
	got := p.Lookup("short", 3)
	if len(got) != 3 || got[0].String() != "1" || !got[1].IsAbsent() {
		t.Fatalf("expected padded series, got %v", got)
	}
	if len(p["short"]) != 1 {
		t.Fatalf("Lookup must not mutate the payload")
	}
}

func TestFrameValidate(t *testing.T) {
	f := Frame{Timestamps: Timestamps{"t0", "t1"}, Metrics: Payload{"a": FromFloats(1, 2), "b": FromFloats(1)}}
	err := f.Validate()
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
	f.Metrics["b"] = Series{Absent(), Num(3)}
	if err := f.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePayload(t *testing.T) {
	if err := ValidatePayload([]byte(`{"lat":[1,null,"2"]}`)); err != nil {
		t.Fatalf("expected valid payload, got %v", err)
	}
	err := ValidatePayload([]byte(`{"lat":1}`))
	if !errors.Is(err, ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestFormatTimestamp(t *testing.T) {
	got, err := FormatTimestamp("2018-08-20T16:49:26.372662016Z")
	if err != nil {
		t.Fatalf("FormatTimestamp error: %v", err)
	}
	if got != "16:49:26.372662" {
		t.Fatalf("expected 16:49:26.372662, got %s", got)
	}
	if _, err := FormatTimestamp("yesterday"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSummarizeIgnoresGaps(t *testing.T) {
	s := Summarize(Series{Num(1), Absent(), Num(3)})
	if s.Count != 2 || s.Min != 1 || s.Max != 3 || s.Mean != 2 {
		t.Fatalf("unexpected summary: %+v", s)
	}
	if math.Abs(s.StdDev-math.Sqrt2) > 1e-9 {
		t.Fatalf("expected sample stddev sqrt(2), got %v", s.StdDev)
	}
	if empty := Summarize(AbsentSeries(2)); empty.Count != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}
