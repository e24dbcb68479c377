package advisor

import (
	"testing"
	"time"
)

func TestDecodeAnalysisResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode ErrorCode
	}{
		{name: "valid", body: `{"confidence":0.8,"reasoning":"ok"}`},
		{name: "confidence bounds", body: `{"confidence":1}`},
		{name: "malformed", body: `{"confidence":`, wantCode: ErrCodeDecode},
		{name: "not an object", body: `"hello"`, wantCode: ErrCodeDecode},
		{name: "missing confidence", body: `{"reasoning":"ok"}`, wantCode: ErrCodeIncomplete},
		{name: "null confidence", body: `{"confidence":null}`, wantCode: ErrCodeIncomplete},
		{name: "confidence too high", body: `{"confidence":1.5}`, wantCode: ErrCodeIncomplete},
		{name: "confidence negative", body: `{"confidence":-0.1}`, wantCode: ErrCodeIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := DecodeAnalysisResponse([]byte(tt.body))
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if resp == nil {
					t.Fatalf("expected response")
				}
				return
			}
			if !IsErrorCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
		})
	}
}

func TestDecodeAnalysisResponseKeepsFields(t *testing.T) {
	body := `{
		"question": "Is VCB a buy?",
		"symbols": ["VCB"],
		"recommendations": {"VCB": "hold"},
		"reasoning": "Stable margins.",
		"confidence": 0.72,
		"bias_status": {"checked": true, "detected": false},
		"detected_language": "vi",
		"source_links": [{"index": 1, "title": "Q2 report", "url": "https://example.com/q2"}],
		"investment_suggestions": [{"title": "VCB", "description": "Bank", "asset_class": "stock", "symbol": "VCB", "imageUrl": "https://example.com/vcb.png"}]
	}`
	resp, err := DecodeAnalysisResponse([]byte(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Confidence != 0.72 || resp.Recommendations["VCB"] != "hold" {
		t.Fatalf("unexpected fields: %+v", resp)
	}
	if !resp.BiasStatus.Checked {
		t.Fatalf("expected bias status to be checked")
	}
	if len(resp.InvestmentSuggestions) != 1 || resp.InvestmentSuggestions[0].ImageURL != "https://example.com/vcb.png" {
		t.Fatalf("expected camelCase imageUrl to be accepted, got %+v", resp.InvestmentSuggestions)
	}
}

func TestNormalizeFillsOptionalFields(t *testing.T) {
	now := time.Date(2025, 8, 12, 9, 30, 0, 0, time.UTC)
	resp := Normalize(&AnalysisResponse{Confidence: 0.9, DetectedLanguage: "vi-VN"}, "Tell me about gold", now)

	if resp.Question != "Tell me about gold" {
		t.Fatalf("expected question echo, got %q", resp.Question)
	}
	if resp.Symbols == nil || resp.Recommendations == nil || resp.DataSources == nil || resp.SourceLinks == nil {
		t.Fatalf("expected nil collections to become empty: %+v", resp)
	}
	if resp.Timestamp != "2025-08-12T09:30:00Z" {
		t.Fatalf("unexpected timestamp %q", resp.Timestamp)
	}
	if resp.DetectedLanguage != "vi-VN" {
		t.Fatalf("expected vi-VN to pass through, got %q", resp.DetectedLanguage)
	}
	if symbolsOf(resp.InvestmentSuggestions) != "GOLD" {
		t.Fatalf("expected GOLD fallback suggestion, got %s", symbolsOf(resp.InvestmentSuggestions))
	}
	if resp.Confidence != 0.9 {
		t.Fatalf("confidence must pass through, got %v", resp.Confidence)
	}
}

func TestNormalizeKeepsRemoteSuggestions(t *testing.T) {
	remote := []InvestmentSuggestion{{Title: "VNM", AssetClass: AssetClassStock, Symbol: "VNM"}}
	resp := Normalize(&AnalysisResponse{
		Question:              "remote question",
		Timestamp:             "2025-01-01T00:00:00Z",
		InvestmentSuggestions: remote,
	}, "gold", time.Now())

	if symbolsOf(resp.InvestmentSuggestions) != "VNM" {
		t.Fatalf("expected remote suggestions to be kept, got %s", symbolsOf(resp.InvestmentSuggestions))
	}
	if resp.Question != "remote question" || resp.Timestamp != "2025-01-01T00:00:00Z" {
		t.Fatalf("expected remote fields to pass through: %+v", resp)
	}
}

func TestNormalizeKeepsRegionalLanguageTag(t *testing.T) {
	remote := &AnalysisResponse{
		Confidence:       0.8,
		DetectedLanguage: "zh-Hant-TW",
		InvestmentSuggestions: []InvestmentSuggestion{
			{Title: "TSMC", AssetClass: AssetClassStock, Symbol: "TSM"},
		},
	}
	resp := Normalize(remote, "台積電值得買嗎？", time.Now())
	if resp.DetectedLanguage != "zh-Hant-TW" {
		t.Fatalf("expected zh-Hant-TW, got %q", resp.DetectedLanguage)
	}
}

func TestNormalizeNilResponse(t *testing.T) {
	resp := Normalize(nil, "bitcoin", time.Now())
	if resp == nil || resp.Confidence != FallbackConfidence {
		t.Fatalf("expected fallback response, got %+v", resp)
	}
	if symbolsOf(resp.InvestmentSuggestions) != "BTC" {
		t.Fatalf("expected BTC, got %s", symbolsOf(resp.InvestmentSuggestions))
	}
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":           "en",
		"  ":         "en",
		"en":         "en",
		"EN-us":      "EN-us",
		"vi":         "vi",
		"pt-BR":      "pt-BR",
		"zh-Hant-TW": "zh-Hant-TW",
		"und":        "en",
		"!!":         "en",
	}
	for input, want := range tests {
		if got := normalizeLanguage(input); got != want {
			t.Errorf("normalizeLanguage(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCleanupModelJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "plain", input: `{"a":1}`, want: `{"a":1}`},
		{name: "fenced", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "prose around", input: "Here you go: {\"a\":{\"b\":2}} hope it helps", want: `{"a":{"b":2}}`},
		{name: "no object", input: "  nothing  ", want: "nothing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cleanupModelJSON(tt.input); got != tt.want {
				t.Fatalf("cleanupModelJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}
