package persistence

import (
	"testing"
	"time"
)

func TestFingerprint(t *testing.T) {
	base := projectList(t)
	before, err := Fingerprint(base)
	if err != nil {
		t.Fatal(err)
	}

	again, err := Fingerprint(base)
	if err != nil {
		t.Fatal(err)
	}
	if before != again {
		t.Error("fingerprint changed without a change to the list")
	}

	tests := []struct {
		name   string
		mutate func(t *testing.T)
	}{
		{
			name: "completion",
			mutate: func(t *testing.T) {
				build, _ := base.Todo(3)
				build.Complete(time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC))
			},
		},
		{
			name: "new todo",
			mutate: func(t *testing.T) {
				base.Add("Celebrate")
			},
		},
		{
			name: "new dependency",
			mutate: func(t *testing.T) {
				celebrate, _ := base.Todo(4)
				build, _ := base.Todo(3)
				if err := base.AddDependency(celebrate, build); err != nil {
					t.Fatal(err)
				}
			},
		},
	}

	prev := before
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mutate(t)
			got, err := Fingerprint(base)
			if err != nil {
				t.Fatal(err)
			}
			if got == prev {
				t.Errorf("fingerprint unchanged after %s", tt.name)
			}
			prev = got
		})
	}
}
