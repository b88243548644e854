package version

import (
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	v, c, d := Info()
	switch {
	case v == "":
		t.Error("version should not be empty")
	case c == "":
		t.Error("commit should not be empty")
	case d == "":
		t.Error("date should not be empty")
	default:
		t.Log("version: ", v)
		t.Log("commit: ", c)
		t.Log("date: ", d)
	}
}

func TestString(t *testing.T) {
	s := String()
	switch {
	case !strings.Contains(s, "version="):
		t.Error("String should contain 'version='")
	case !strings.Contains(s, "commit="):
		t.Error("String should contain 'commit='")
	case !strings.Contains(s, "date="):
		t.Error("String should contain 'date='")
	default:
		t.Log("string: ", s)
	}
}

func TestVersionConsistency(t *testing.T) {
	v1 := GetVersion()
	v2, c2, d2 := Info()
	if v1 != v2 {
		t.Errorf("GetVersion (%s) should match Info version (%s)", v1, v2)
	}
	if c1 := GetCommit(); c1 != c2 {
		t.Errorf("GetCommit (%s) should match Info commit (%s)", c1, c2)
	}
	if d1 := GetDate(); d1 != d2 {
		t.Errorf("GetDate (%s) should match Info date (%s)", d1, d2)
	}
}
