package common

import "testing"

func TestDefaultKeyMap_HasCriticalBindings(t *testing.T) {
	km := DefaultKeyMap()
	if len(km.ToggleHints.Keys()) == 0 || km.ToggleHints.Keys()[0] != "?" {
		t.Fatalf("expected ? key binding for hints")
	}
	if len(km.ForceQuit.Keys()) == 0 || km.ForceQuit.Keys()[0] != "ctrl+c" {
		t.Fatalf("expected ctrl+c force quit binding")
	}
	if keys := km.OpenThread.Keys(); len(keys) != 2 || keys[0] != "v" || keys[1] != "enter" {
		t.Fatalf("expected v/enter to open a thread, got %v", keys)
	}
	if km.Refresh.Keys()[0] != "ctrl+r" || km.Repost.Keys()[0] != "r" {
		t.Fatalf("r reposts and ctrl+r refreshes")
	}
}

func TestHelpCoversBindings(t *testing.T) {
	km := DefaultKeyMap()
	n := 0
	for _, col := range km.FullHelp() {
		n += len(col)
	}
	if n < 18 {
		t.Fatalf("full help lists too few bindings: %d", n)
	}
	if len(km.ShortHelp()) == 0 {
		t.Fatalf("short help is empty")
	}
}
