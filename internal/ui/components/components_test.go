package components

import (
	"strings"
	"testing"

	"github.com/yildizm/SysSecura/internal/emoji"
	"github.com/yildizm/SysSecura/internal/predict"
)

func TestSpinnerTickWraps(t *testing.T) {
	s := NewSpinner()
	for i := 0; i < len(spinnerFrames); i++ {
		s.Tick()
	}
	if s.Frame != 0 {
		t.Errorf("Expected frame to wrap to 0, got %d", s.Frame)
	}

	s.SetLabel("Detecting...")
	if !strings.Contains(s.Render(), "Detecting...") {
		t.Error("Expected label in render")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.in); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewSummaryDashboard(t *testing.T) {
	emoji.SetEmojiDisabled(true)
	defer emoji.SetEmojiDisabled(false)

	d := NewSummaryDashboard(predict.Summary{Total: 1200, Flagged: 3, Normal: 1197})
	if d.Len() != 3 {
		t.Fatalf("Expected 3 cards, got %d", d.Len())
	}
	if d.cards[1].Status != "error" {
		t.Errorf("Expected flagged card in error status, got %s", d.cards[1].Status)
	}

	out := d.Render()
	for _, want := range []string{"Records", "1,200", "Flagged", "Normal"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in dashboard", want)
		}
	}

	clean := NewSummaryDashboard(predict.Summary{Total: 2, Normal: 2})
	if clean.cards[1].Status != "success" {
		t.Errorf("Expected flagged card in success status when nothing flagged, got %s", clean.cards[1].Status)
	}
}
