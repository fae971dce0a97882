package roombot

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestDefaultProfile(t *testing.T) {
	spec, err := DefaultProfile()
	if err != nil {
		t.Fatalf("DefaultProfile: %v", err)
	}
	p := spec.Messenger()
	if p.GetStarted == nil || p.GetStarted.Payload != `{"type":"INIT"}` {
		t.Fatalf("get started=%+v", p.GetStarted)
	}
	if len(p.PersistentMenu) != 1 || len(p.PersistentMenu[0].CallToActions) != 3 {
		t.Fatalf("menu=%+v", p.PersistentMenu)
	}
	find := p.PersistentMenu[0].CallToActions[0]
	if find.Type != "nested" || len(find.CallToActions) != 2 || find.CallToActions[1].Payload != `{"type":"ROOM/RANDOM"}` {
		t.Fatalf("find a room=%+v", find)
	}
	if len(p.Greeting) != 1 || !strings.HasPrefix(p.Greeting[0].Text, "This bot is dedicated") {
		t.Fatalf("greeting=%+v", p.Greeting)
	}
	if len(spec.HelpCards()) != 3 {
		t.Fatalf("help cards=%d", len(spec.HelpCards()))
	}
	if _, err := json.Marshal(p); err != nil {
		t.Fatalf("marshal: %v", err)
	}
}

func TestParseProfileRejects(t *testing.T) {
	cases := map[string]string{
		"bad yaml":         "menu: [",
		"unknown tag":      "get_started: NOPE\n",
		"missing start":    "menu:\n  items: []\n",
		"bad menu payload": "get_started: INIT\nmenu:\n  items:\n    - title: X\n      payload: ROOM/CHOOSE/2\n",
		"untitled":         "get_started: INIT\nmenu:\n  items:\n    - payload: HELP\n",
		"nested payload":   "get_started: INIT\nmenu:\n  items:\n    - title: X\n      payload: HELP\n      items:\n        - title: Y\n          payload: HELP\n",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseProfile([]byte(raw)); err == nil {
				t.Fatalf("expected an error")
			}
		})
	}
}
