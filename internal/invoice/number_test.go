package invoice

import (
	"regexp"
	"testing"
)

func TestNumberPrefix(t *testing.T) {
	cases := map[string]string{
		"Leads To Company":    "LTC",
		"acme":                "A",
		"big  blue  sky  ltd": "BBS",
		"  zeta  ":            "Z",
		"Ünited Traders":      "ÜT",
	}
	for in, want := range cases {
		if got := NumberPrefix(in); got != want {
			t.Fatalf("NumberPrefix(%q): got=%q want=%q", in, got, want)
		}
	}
}

func TestGenerateNumber(t *testing.T) {
	got := GenerateNumber("Leads To Company", func() int64 { return 1234567890 })
	if got != "LTC-1234567890" {
		t.Fatalf("got=%q", got)
	}

	pattern := regexp.MustCompile(`^AB-\d{10}$`)
	for i := 0; i < 100; i++ {
		if n := GenerateNumber("alpha beta", nil); !pattern.MatchString(n) {
			t.Fatalf("unexpected number %q", n)
		}
	}
}
