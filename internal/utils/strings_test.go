package utils

import (
	"reflect"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Finexs Voyage", "finexs-voyage"},
		{"  Touristique   Express  ", "touristique-express"},
		{"Général du Nord", "g-n-ral-du-nord"},
		{"---", ""},
	}
	for _, c := range cases {
		if got := Slugify(c.in); got != c.want {
			t.Fatalf("Slugify(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSplitSeatList(t *testing.T) {
	got := SplitSeatList(" 1, 2 ;3,, \n4 ")
	want := []string{"1", "2", "3", "4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SplitSeatList = %v, want %v", got, want)
	}
	if empty := SplitSeatList("  "); len(empty) != 0 {
		t.Fatalf("blank input should yield no seats, got %v", empty)
	}
}
