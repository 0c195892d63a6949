package matcher

import "testing"

func TestTokenSetRatio(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want int
	}{
		{name: "identical", a: "how to place an order", b: "how to place an order", want: 100},
		{name: "word_order_ignored", a: "place order", b: "order place", want: 100},
		{name: "token_subset", a: "place order", b: "how to place order", want: 100},
		{name: "both_empty", a: "", b: "", want: 100},
		{name: "one_empty", a: "anything", b: "", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenSetRatio(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("TokenSetRatio(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestTokenSetRatioSymmetric(t *testing.T) {
	pairs := [][2]string{
		{"how to place an order", "how do i place an order"},
		{"payment methods", "how can i pay"},
		{"a b c", "c d e"},
	}
	for _, pair := range pairs {
		ab := TokenSetRatio(pair[0], pair[1])
		ba := TokenSetRatio(pair[1], pair[0])
		if ab != ba {
			t.Errorf("TokenSetRatio not symmetric for %q/%q: %d != %d", pair[0], pair[1], ab, ba)
		}
	}
}

func TestTokenSetRatioPhrasing(t *testing.T) {
	// Minor phrasing changes must still score highly, unrelated text low.
	near := TokenSetRatio("how to place an order", "how do i place an order")
	if near < 70 {
		t.Errorf("near-paraphrase scored %d, want >= 70", near)
	}

	far := TokenSetRatio("how to place an order", "refund policy duration")
	if far >= near {
		t.Errorf("unrelated text scored %d, not below paraphrase score %d", far, near)
	}
}
