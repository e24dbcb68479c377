package money

import (
	"encoding/json"
	"testing"
)

func TestAmountMarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		Price Amount `json:"price"`
	}{Price: NewAmount(135000.5)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"price":135000.5}` {
		t.Fatalf("unexpected json: %s", data)
	}
}

func TestAmountUnmarshalJSON(t *testing.T) {
	var payload struct {
		A Amount `json:"a"`
		B Amount `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":12.25,"b":"7.5"}`), &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.A.Equal(NewAmount(12.25).Decimal) {
		t.Fatalf("expected 12.25, got %s", payload.A.String())
	}
	if !payload.B.Equal(NewAmount(7.5).Decimal) {
		t.Fatalf("expected 7.5, got %s", payload.B.String())
	}
}

func TestZeroMarshalsAsZero(t *testing.T) {
	data, err := json.Marshal(Zero())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != "0" {
		t.Fatalf("expected 0, got %s", data)
	}
}

func TestRoundToStep(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		step int64
		want int64
	}{
		{name: "down", in: 136549.9, step: 100, want: 136500},
		{name: "up", in: 136550, step: 100, want: 136600},
		{name: "exact", in: 45000, step: 100, want: 45000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewAmount(tt.in).RoundToStep(tt.step)
			if got.IntPart() != tt.want {
				t.Fatalf("expected %d, got %s", tt.want, got.String())
			}
		})
	}

	if got := NewAmount(12.3).RoundToStep(0); !got.Equal(NewAmount(12.3).Decimal) {
		t.Fatalf("non-positive step should be a no-op, got %s", got.String())
	}
}
