package domain

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"testing"
	"time"
)

func TestClassID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		input string
		want  ClassID
	}{
		{`1`, "1"},
		{`0`, "0"},
		{`4.0`, "4"},
		{`"pos"`, "pos"},
		{`"1"`, "1"},
		{`0.5`, "0.5"},
	}
	for _, tc := range tests {
		var c ClassID
		if err := json.Unmarshal([]byte(tc.input), &c); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.input, err)
		}
		if c != tc.want {
			t.Errorf("unmarshal %s = %q, want %q", tc.input, c, tc.want)
		}
	}
}

func TestClassID_UnmarshalJSON_Invalid(t *testing.T) {
	var c ClassID
	if err := json.Unmarshal([]byte(`{"a":1}`), &c); err == nil {
		t.Fatal("expected error for object class id")
	}
}

func TestNewSparseVector_SortsAndDropsZeros(t *testing.T) {
	v := NewSparseVector(5, map[int]float64{3: 2, 0: 1, 1: 0, 7: 9})

	if v.Dim != 5 {
		t.Errorf("Dim = %d, want 5", v.Dim)
	}
	if v.NNZ() != 2 {
		t.Fatalf("NNZ = %d, want 2", v.NNZ())
	}
	if v.Indices[0] != 0 || v.Indices[1] != 3 {
		t.Errorf("Indices = %v, want [0 3]", v.Indices)
	}
	if v.Values[0] != 1 || v.Values[1] != 2 {
		t.Errorf("Values = %v, want [1 2]", v.Values)
	}
}

func TestFeatureVector_DotAndDense(t *testing.T) {
	v := NewDenseVector([]float64{1, 0, 2})

	if v.NNZ() != 2 {
		t.Fatalf("NNZ = %d, want 2", v.NNZ())
	}
	if got := v.Dot([]float64{3, 100, 0.5}); got != 4 {
		t.Errorf("Dot = %f, want 4", got)
	}

	d := v.Dense()
	if len(d) != 3 || d[0] != 1 || d[1] != 0 || d[2] != 2 {
		t.Errorf("Dense = %v", d)
	}
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		probs []float64
		want  float64
	}{
		{[]float64{0.2, 0.8}, 80},
		{[]float64{0.123456, 0.876544}, 87.65},
		{[]float64{0.5, 0.5}, 50},
		{[]float64{1}, 100},
		{nil, 0},
	}
	for _, tc := range tests {
		if got := Confidence(tc.probs); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Confidence(%v) = %v, want %v", tc.probs, got, tc.want)
		}
	}
}

func TestNewResult_ClampsConfidence(t *testing.T) {
	now := time.Now()

	if r := NewResult(Positive, 120, now); r.Confidence() != 100 {
		t.Errorf("expected 100, got %f", r.Confidence())
	}
	if r := NewResult(Negative, -3, now); r.Confidence() != 0 {
		t.Errorf("expected 0, got %f", r.Confidence())
	}
	if r := NewResult(Negative, math.NaN(), now); r.Confidence() != 0 {
		t.Errorf("expected 0 for NaN, got %f", r.Confidence())
	}
	r := NewResult(Positive, 64.5, now)
	if r.Label() != Positive || !r.AnalyzedAt().Equal(now) {
		t.Errorf("unexpected result: %+v", r)
	}
}

func TestLabel_Valid(t *testing.T) {
	if !Positive.Valid() || !Negative.Valid() {
		t.Error("known labels must be valid")
	}
	if Label("Neutral").Valid() {
		t.Error("unknown label must be invalid")
	}
}

func TestArtifactError_Unwrap(t *testing.T) {
	err := NewArtifactError("classifier", "models/model.json", os.ErrNotExist)

	if !errors.Is(err, ErrArtifact) {
		t.Error("expected errors.Is(err, ErrArtifact)")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected errors.Is(err, os.ErrNotExist)")
	}

	var ae *ArtifactError
	if !errors.As(err, &ae) || ae.Kind != "classifier" {
		t.Fatalf("expected ArtifactError with kind classifier, got %v", err)
	}
	want := "model artifact unavailable: classifier models/model.json: file does not exist"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
