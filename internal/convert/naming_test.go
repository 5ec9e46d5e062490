package convert

import "testing"

func TestOutputPath(t *testing.T) {
	cases := []struct {
		src, ext, want string
	}{
		{"/data/CardInfo.ct", ".xlsx", "/data/CardInfo.xlsx"},
		{"/data/CardInfo_converted.xlsx", ".ct", "/data/CardInfo.ct"},
		{"CardInfo.CT", ".xlsx", "CardInfo.xlsx"},
	}
	for _, c := range cases {
		if got := outputPath(c.src, c.ext); got != c.want {
			t.Fatalf("outputPath(%q, %q) = %q, want %q", c.src, c.ext, got, c.want)
		}
	}
}
