package book

import "testing"

func TestSafeName(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"Plain", "Plain"},
		{"With spaces here", "With_spaces_here"},
		{"Hyphen-ated - title", "Hyphen_ated_title"},
		{"Quotes \"and\" (parens)!", "Quotes_and_parens"},
		{"Gwerzhioù ha c'hoarioù", "Gwerzhioù_ha_choarioù"},
		{"already_safe_name", "already_safe_name"},
		{"", ""},
	}
	for _, c := range cases {
		if got := SafeName(c.in); got != c.want {
			t.Errorf("SafeName(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSafeNameIdempotent(t *testing.T) {
	titles := []string{"With spaces here", "Hyphen-ated - title", "Quotes \"and\" (parens)!"}
	for _, title := range titles {
		once := SafeName(title)
		if twice := SafeName(once); twice != once {
			t.Errorf("SafeName not idempotent for %q: %q -> %q", title, once, twice)
		}
	}
}
