package season

import "testing"

func TestFromColdToggle(t *testing.T) {
	if got := FromColdToggle(true); got != Cold {
		t.Errorf("FromColdToggle(true) = %q, want %q", got, Cold)
	}
	if got := FromColdToggle(false); got != Heat {
		t.Errorf("FromColdToggle(false) = %q, want %q", got, Heat)
	}
}

func TestParse(t *testing.T) {
	if s, err := Parse("COLD"); err != nil || s != Cold {
		t.Errorf("Parse(COLD) = %q, %v", s, err)
	}
	if _, err := Parse("SPRING"); err == nil {
		t.Error("Parse(SPRING) should fail")
	}
}
