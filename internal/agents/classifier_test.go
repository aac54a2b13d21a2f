package agents

import "testing"

func TestLacksEvidence(t *testing.T) {
	cases := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace only", "   \t  ", false},
		{"question", "Why do you think the policy failed so badly?", false},
		{"question mark mid-sentence", "Is that right? I am not sure at all", false},
		{"contains digit", "The population grew by twenty percent in the nineties, around 1995", false},
		{"single digit", "Option 2 seems stronger to me overall", false},
		{"keyword because", "That happened because the incentives were misaligned", false},
		{"keyword research", "Recent research contradicts that position entirely", false},
		{"keyword according to", "According to the textbook this is settled", false},
		{"keyword url", "See https://example.org/paper for the details", false},
		{"keyword for example", "There are exceptions, for example migratory birds", false},
		{"bracket citation is digit exempt", "This claim was debunked [3]", false},
		{"doi citation", "covered in doi:jabc/xyz end to end", false},
		{"short remark", "I agree with that", false},
		{"nineteen runes", "strongly disagreed!", false},
		{"exactly twenty runes", "strongly disagreeed!", true},
		{"bare claim", "Renewable energy is always cheaper than fossil fuels", true},
		{"uppercase keyword still matches", "BECAUSE THE INCENTIVES WERE WRONG THIS FAILED", false},
		{"multibyte runes count as one", "本当にそう思うこれは間違いなく正しい主張だと思う", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := LacksEvidence(tc.text); got != tc.want {
				t.Fatalf("LacksEvidence(%q): want=%v got=%v", tc.text, tc.want, got)
			}
		})
	}
}
