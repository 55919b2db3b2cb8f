package rx

import "testing"

func TestCompileLiteralChar(t *testing.T) {
	re, err := Compile("a")
	if err != nil {
		t.Fatalf("Compile(%q) error: %v", "a", err)
	}
	if !re.Exact("a") {
		t.Error(`Exact("a") on pattern "a" should be true`)
	}
	if re.Exact("b") {
		t.Error(`Exact("b") on pattern "a" should be false`)
	}
	if re.Exact("") {
		t.Error(`Exact("") on pattern "a" should be false`)
	}
	if re.Exact("ab") {
		t.Error(`Exact("ab") on pattern "a" should be false`)
	}
	if !re.Matches("xax") {
		t.Error(`Matches("xax") on pattern "a" should be true`)
	}
}

func TestStarPlusQuestion(t *testing.T) {
	tests := []struct {
		pattern string
		yes     []string
		no      []string
	}{
		{"a*", []string{"", "a", "aaaa"}, []string{"b", "ab"}},
		{"a+", []string{"a", "aaaa"}, []string{"", "b", "ab"}},
		{"a?", []string{"", "a"}, []string{"aa", "b"}},
		{"ab*c", []string{"ac", "abc", "abbbbc"}, []string{"a", "abx"}},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			re, err := Compile(test.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", test.pattern, err)
			}
			for _, s := range test.yes {
				if !re.Exact(s) {
					t.Errorf("Exact(%q) on pattern %q should be true", s, test.pattern)
				}
			}
			for _, s := range test.no {
				if re.Exact(s) {
					t.Errorf("Exact(%q) on pattern %q should be false", s, test.pattern)
				}
			}
		})
	}
}

func TestAlternation(t *testing.T) {
	re, err := Compile("cat|dog")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for _, s := range []string{"cat", "dog"} {
		if !re.Exact(s) {
			t.Errorf("Exact(%q) on pattern %q should be true", s, "cat|dog")
		}
	}
	if re.Exact("cog") {
		t.Error(`Exact("cog") on pattern "cat|dog" should be false`)
	}
}

func TestGrouping(t *testing.T) {
	re, err := Compile("(ab)+")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for _, s := range []string{"ab", "abab", "ababab"} {
		if !re.Exact(s) {
			t.Errorf("Exact(%q) on pattern %q should be true", s, "(ab)+")
		}
	}
	for _, s := range []string{"", "a", "aba"} {
		if re.Exact(s) {
			t.Errorf("Exact(%q) on pattern %q should be false", s, "(ab)+")
		}
	}
}

func TestCharacterClass(t *testing.T) {
	re, err := Compile("[abc]+")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	for _, s := range []string{"a", "cab", "aabbcc"} {
		if !re.Exact(s) {
			t.Errorf("Exact(%q) on pattern %q should be true", s, "[abc]+")
		}
	}
	if re.Exact("abcd") {
		t.Error(`Exact("abcd") on pattern "[abc]+" should be false`)
	}

	neg, err := Compile("[^abc]+")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !neg.Exact("xyz") {
		t.Error(`Exact("xyz") on pattern "[^abc]+" should be true`)
	}
	if neg.Exact("xaz") {
		t.Error(`Exact("xaz") on pattern "[^abc]+" should be false`)
	}
}

func TestPosixClass(t *testing.T) {
	re, err := Compile("[[:digit:]]+")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !re.Exact("0123456789") {
		t.Error(`Exact("0123456789") on pattern "[[:digit:]]+" should be true`)
	}
	if re.Exact("12a") {
		t.Error(`Exact("12a") on pattern "[[:digit:]]+" should be false`)
	}

	alnum, err := Compile("[[:alnum:]]+")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !alnum.Exact("abc123XYZ") {
		t.Error(`Exact("abc123XYZ") on pattern "[[:alnum:]]+" should be true`)
	}
	if alnum.Exact("abc-123") {
		t.Error(`Exact("abc-123") on pattern "[[:alnum:]]+" should be false`)
	}
}

func TestEscapeShorthands(t *testing.T) {
	tests := []struct {
		pattern string
		yes     string
		no      string
	}{
		{`\d+`, "42", "4a"},
		{`\w+`, "var_1", "a-b"},
		{`\s+`, " \t\n", "x"},
	}
	for _, test := range tests {
		t.Run(test.pattern, func(t *testing.T) {
			re, err := Compile(test.pattern)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", test.pattern, err)
			}
			if !re.Exact(test.yes) {
				t.Errorf("Exact(%q) on pattern %q should be true", test.yes, test.pattern)
			}
			if re.Exact(test.no) {
				t.Errorf("Exact(%q) on pattern %q should be false", test.no, test.pattern)
			}
		})
	}
}

func TestLiteralEscapeOfMetacharacter(t *testing.T) {
	re, err := Compile(`a\.b`)
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !re.Exact("a.b") {
		t.Error(`Exact("a.b") on pattern "a\.b" should be true`)
	}
	if re.Exact("axb") {
		t.Error(`Exact("axb") on pattern "a\.b" should be false`)
	}
}

func TestAnchors(t *testing.T) {
	re, err := Compile("^a$")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !re.Exact("a") {
		t.Error(`Exact("a") on pattern "^a$" should be true`)
	}
	if re.Exact("ab") {
		t.Error(`Exact("ab") on pattern "^a$" should be false`)
	}
}

func TestMatchesIsUnanchoredExactIsAnchored(t *testing.T) {
	re, err := Compile("bc")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !re.Matches("abcd") {
		t.Error(`Matches("abcd") on pattern "bc" should be true (substring)`)
	}
	if re.Exact("abcd") {
		t.Error(`Exact("abcd") on pattern "bc" should be false (not the whole string)`)
	}
}

func TestAnyCharacterDot(t *testing.T) {
	re, err := Compile("a.c")
	if err != nil {
		t.Fatalf("Compile error: %v", err)
	}
	if !re.Exact("abc") {
		t.Error(`Exact("abc") on pattern "a.c" should be true`)
	}
	if re.Exact("a\nc") {
		t.Error(`Exact("a\nc") on pattern "a.c" should be false — "." excludes newline`)
	}
}

func TestInvalidPatternFallsBackToDegenerateMatch(t *testing.T) {
	_, err := Compile("(a")
	if err == nil {
		t.Fatal(`Compile("(a") should report an error for an unterminated group`)
	}
	re := Invalid("(a")
	if re.Pattern != "(a" {
		t.Errorf("Invalid pattern text not preserved: got %q", re.Pattern)
	}
	if !re.Exact("") {
		t.Error("Invalid() automaton should still match the empty string via Exact")
	}
	if re.Exact("a") {
		t.Error("Invalid() automaton should never match a non-empty string via Exact")
	}
	if !re.Matches("xyz") {
		t.Error("Invalid() automaton should still report a (zero-width) Matches anywhere")
	}
}

func TestCompileRejectsTrailingGarbage(t *testing.T) {
	if _, err := Compile("a)"); err == nil {
		t.Error(`Compile("a)") should fail: unmatched ")" is trailing garbage`)
	}
	if _, err := Compile("[abc"); err == nil {
		t.Error(`Compile("[abc") should fail: unterminated character class`)
	}
}
