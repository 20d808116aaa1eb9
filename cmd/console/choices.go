package main

import (
	"fmt"

	"github.com/apu-inti/guardian/pkg/scene"
	"github.com/apu-inti/guardian/pkg/state"
)

type localAction int

const (
	remoteAction localAction = iota
	copyShareText
	downloadCertificate
)

// choice is one selectable line under the scene. Remote choices post
// Body to /v1/games/{id}/{Suffix}; local ones run in the console.
type choice struct {
	Label  string
	Suffix string
	Body   any
	Local  localAction
}

func navigateTo(label string, to scene.Scene) choice {
	return choice{Label: label, Suffix: "navigate", Body: map[string]string{"scene": string(to)}}
}

func missionOp(m scene.Mission, op string) string {
	return fmt.Sprintf("missions/%s/%s", m, op)
}

// choices lists what the player can do on the current view, scene
// actions first and unlocked exits last.
func choices(v *state.View) []choice {
	if v == nil {
		return nil
	}
	var cs []choice

	switch {
	case v.Menu != nil:
		cs = append(cs, navigateTo("▶ "+v.Menu.Play, scene.Intro), navigateTo("🛰️ "+v.Menu.NASA, scene.NASA))
		for _, l := range v.Menu.Languages {
			if !l.Active {
				cs = append(cs, choice{Label: "🌐 " + l.Label, Suffix: "language", Body: map[string]string{"language": l.Code}})
			}
		}
		return cs

	case v.Intro != nil:
		if !v.Intro.Finished {
			cs = append(cs, choice{Label: "▶ Next", Suffix: "intro/advance"})
		}
		cs = append(cs, choice{Label: "↺ Replay", Suffix: "intro/replay"})

	case v.Map != nil:
		for _, r := range v.Map.Regions {
			if r.Locked {
				continue
			}
			cs = append(cs, choice{
				Label:  fmt.Sprintf("%s %s (%d%%)", r.Emoji, r.Name, r.Progress),
				Suffix: "map/select",
				Body:   map[string]string{"region": string(r.Region)},
			})
		}

	case v.Costa != nil:
		for _, m := range v.Costa.Missions {
			cs = append(cs, navigateTo(check(m.Completed)+" "+m.Title, scene.Scene(m.Mission)))
		}

	case v.Quiz != nil:
		q := v.Quiz
		switch {
		case q.Finished:
		case q.Feedback == "":
			for i, opt := range q.Options {
				cs = append(cs, choice{
					Label:  fmt.Sprintf("%c) %s", 'A'+i, opt),
					Suffix: missionOp(scene.MissionQuiz, "answer"),
					Body:   map[string]int{"option": i},
				})
			}
		default:
			cs = append(cs, choice{Label: "▶ Next", Suffix: missionOp(scene.MissionQuiz, "next")})
		}

	case v.Fishing != nil:
		f := v.Fishing
		if !f.Started {
			cs = append(cs, choice{Label: "🎣 Start", Suffix: missionOp(scene.MissionFishing, "start")})
			break
		}
		if !f.Finished {
			for _, it := range f.Pool {
				cs = append(cs, choice{
					Label:  it.Icon + " " + it.Name,
					Suffix: missionOp(scene.MissionFishing, "catch"),
					Body:   map[string]int{"item": it.ID},
				})
			}
		}
		cs = append(cs, choice{Label: "✔ Finish", Suffix: missionOp(scene.MissionFishing, "complete")})

	case v.Cleanup != nil:
		if v.Cleanup.Done {
			cs = append(cs, choice{Label: "✔ Finish", Suffix: missionOp(scene.MissionCleanup, "complete")})
			break
		}
		for _, it := range v.Cleanup.Items {
			cs = append(cs, choice{
				Label:  it.Icon + " " + it.Name,
				Suffix: missionOp(scene.MissionCleanup, "pick"),
				Body:   map[string]int{"item": it.ID},
			})
		}

	case v.Board != nil:
		if !v.Board.Completed {
			for _, a := range v.Board.Actions {
				if a.Available {
					cs = append(cs, choice{Label: a.Label, Suffix: fmt.Sprintf("regions/%s/%s", v.Board.Region, a.ID)})
				}
			}
		}

	case v.Final != nil:
		cs = append(cs,
			choice{Label: "📋 Copy share text", Local: copyShareText},
			choice{Label: "📜 Save certificate", Local: downloadCertificate},
		)
	}

	for _, e := range v.Exits {
		if !e.Locked {
			cs = append(cs, navigateTo("→ "+string(e.Scene), e.Scene))
		}
	}
	return cs
}

func check(done bool) string {
	if done {
		return "✅"
	}
	return "⬜"
}
