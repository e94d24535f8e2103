package textutil

import "testing"

func TestCollapseWhitespace(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"  Jane   Doe ", "Jane Doe"},
		{"Jane\n\tDoe", "Jane Doe"},
		{"", ""},
		{"   ", ""},
	}
	for _, test := range testCases {
		got := CollapseWhitespace(test.input)
		if got != test.expected {
			t.Errorf("CollapseWhitespace(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	if NormalizeKey("  Jane  DOE ") != "janedoe" {
		t.Error("expected janedoe")
	}
}

func TestReverse(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"abc", "cba"},
		{"", ""},
		{"ä?b", "b?ä"},
	}
	for _, test := range testCases {
		got := Reverse(test.input)
		if got != test.expected {
			t.Errorf("Reverse(%q) = %q, expected %q", test.input, got, test.expected)
		}
	}
}
