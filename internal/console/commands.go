package console

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/pixil98/sms-tracker/internal/display"
	"github.com/pixil98/sms-tracker/internal/snapshot"
	"github.com/pixil98/sms-tracker/internal/storage"
	"github.com/pixil98/sms-tracker/internal/tracker"
	"github.com/pixil98/sms-tracker/internal/world"
)

type commandFunc func(ctx context.Context, s *session, args []string) error

type command struct {
	name    string
	aliases []string
	usage   string
	help    string
	minArgs int
	run     commandFunc
}

func builtinCommands() []*command {
	return []*command{
		{name: "help", aliases: []string{"?"}, usage: "help", help: "List the available commands.", run: cmdHelp},
		{name: "stats", usage: "stats [group]", help: "Show completion for the world or one entrance group.", run: cmdStats},
		{name: "entrances", aliases: []string{"ls"}, usage: "entrances [group]", help: "List entrance groups, or the routes of one group.", run: cmdEntrances},
		{name: "zones", usage: "zones [filter]", help: "List the zones a route can be assigned to.", run: cmdZones},
		{name: "route", usage: "route <key>", minArgs: 1, help: "Show everything reachable through a routing key.", run: cmdRoute},
		{name: "assign", usage: "assign <key> <zone>", minArgs: 2, help: "Route an entrance or exit to a zone.", run: cmdAssign},
		{name: "unassign", usage: "unassign <key>", minArgs: 1, help: "Clear the destination of a routing key.", run: cmdUnassign},
		{name: "shine", usage: "shine <id> [collected|excluded|uncollected]", minArgs: 1, help: "Cycle or set the status of a shine.", run: cmdShine},
		{name: "coin", usage: "coin <zone> <coin>", minArgs: 2, help: "Toggle a blue coin found in a zone.", run: cmdCoin},
		{name: "unlock", usage: "unlock <id>", minArgs: 1, help: "Toggle an unlock by hand. Only allowed with auto-track off.", run: cmdUnlock},
		{name: "gate", usage: "gate", help: "Show what the Corona Mountain gate still needs.", run: cmdGate},
		{name: "status", usage: "status", help: "Show the game hook status and the unlocks held.", run: cmdStatus},
		{name: "autotrack", usage: "autotrack [on|off]", help: "Show or switch auto-tracking of unlocks.", run: cmdAutoTrack},
		{name: "collapse", usage: "collapse <group>", minArgs: 1, help: "Hide the routes of a group in listings.", run: cmdCollapse(true)},
		{name: "expand", usage: "expand <group>", minArgs: 1, help: "Show the routes of a group in listings again.", run: cmdCollapse(false)},
		{name: "save", usage: "save [slot]", help: "Save progress to a slot. Without a name a new slot is made.", run: cmdSave},
		{name: "load", usage: "load <slot>", minArgs: 1, help: "Replace the current progress with a saved slot.", run: cmdLoad},
		{name: "slots", usage: "slots", help: "List the saved slots.", run: cmdSlots},
		{name: "delete", usage: "delete <slot>", minArgs: 1, help: "Delete a saved slot.", run: cmdDelete},
		{name: "export", usage: "export", help: "Print the current progress as a save document.", run: cmdExport},
		{name: "quit", aliases: []string{"exit"}, usage: "quit", help: "End the session.", run: cmdQuit},
	}
}

func cmdHelp(_ context.Context, s *session, _ []string) error {
	var b strings.Builder
	b.WriteString(colorHeading.Sprint("Commands") + "\n")
	for _, c := range s.runner.order {
		fmt.Fprintf(&b, "  %-44s %s\n", c.usage, c.help)
	}
	return s.writeLine(strings.TrimRight(b.String(), "\n"))
}

func cmdStats(_ context.Context, s *session, args []string) error {
	r := s.runner.tracker.Report()
	if len(args) == 0 {
		out, err := expandTemplate(statsTemplate, r)
		if err != nil {
			return err
		}
		return s.writeLine(strings.TrimRight(out, "\n"))
	}

	name, err := findGroup(s.runner.tracker.World(), strings.Join(args, " "))
	if err != nil {
		return err
	}
	g, _ := r.Group(name)
	out, err := expandTemplate(groupTemplate, g)
	if err != nil {
		return err
	}
	return s.writeLine(strings.TrimRight(out, "\n"))
}

func cmdEntrances(_ context.Context, s *session, args []string) error {
	t := s.runner.tracker
	r := t.Report()

	if len(args) > 0 {
		name, err := findGroup(t.World(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		g, _ := r.Group(name)
		out, err := expandTemplate(groupTemplate, g)
		if err != nil {
			return err
		}
		return s.writeLine(strings.TrimRight(out, "\n"))
	}

	var b strings.Builder
	for _, g := range r.Groups {
		if t.Collapsed(groupElementID(g.Name)) {
			fmt.Fprintf(&b, "%s %s\n", colorHeading.Sprint(g.Name), colorMuted.Sprint("(collapsed)"))
			continue
		}
		out, err := expandTemplate(groupTemplate, g)
		if err != nil {
			return err
		}
		b.WriteString(out)
	}
	return s.writeLine(strings.TrimRight(b.String(), "\n"))
}

func cmdZones(_ context.Context, s *session, args []string) error {
	t := s.runner.tracker
	filter := strings.ToLower(strings.Join(args, " "))

	var b strings.Builder
	for _, z := range t.World().AssignableZones(t.Layout().HiddenZones...) {
		if filter != "" && !strings.Contains(strings.ToLower(z.ID+" "+z.Name), filter) {
			continue
		}
		fmt.Fprintf(&b, "  %-20s %s\n", z.ID, z.Name)
	}
	if b.Len() == 0 {
		return NewUserError("No zones match.")
	}
	return s.writeLine(strings.TrimRight(b.String(), "\n"))
}

func cmdRoute(_ context.Context, s *session, args []string) error {
	t := s.runner.tracker
	key, err := routeKey(t.World(), args[0])
	if err != nil {
		return err
	}

	var b strings.Builder
	renderRoute(&b, t.World(), t.ShineStatus, t.Route(key), 0)
	return s.writeLine(strings.TrimRight(b.String(), "\n"))
}

func cmdAssign(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	key, err := routeKey(t.World(), args[0])
	if err != nil {
		return err
	}
	zone := t.World().Zone(args[1])
	if zone == nil {
		return userErrorf("Unknown zone %q. Type 'zones' to list them.", args[1])
	}

	if err := t.Assign(ctx, key, zone.ID); err != nil {
		return routeError(err)
	}
	return s.writeLine(fmt.Sprintf("%s now leads to %s.", key, zoneName(t.World(), zone.ID)))
}

func cmdUnassign(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	key, err := routeKey(t.World(), args[0])
	if err != nil {
		return err
	}
	if err := t.Unassign(ctx, key); err != nil {
		return routeError(err)
	}
	return s.writeLine(fmt.Sprintf("%s is unassigned.", key))
}

func cmdShine(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	id := args[0]
	name, ok := shineName(t.World(), id)
	if !ok {
		return userErrorf("Unknown shine %q.", id)
	}

	var status tracker.ShineStatus
	if len(args) > 1 {
		st, err := tracker.ParseShineStatus(args[1])
		if err != nil {
			return NewUserError(display.Capitalize(err.Error()) + ".")
		}
		t.SetShine(ctx, id, st)
		status = st
	} else {
		status = t.CycleShine(ctx, id)
	}
	return s.writeLine(fmt.Sprintf("%s %s is %s.", shineMarker(status), name, status))
}

func cmdCoin(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	zone := t.World().Zone(args[0])
	if zone == nil {
		return userErrorf("Unknown zone %q.", args[0])
	}
	if !slices.Contains(zone.BlueCoinIDs, args[1]) {
		return userErrorf("%s has no blue coin %q.", zoneName(t.World(), zone.ID), args[1])
	}

	label := args[1]
	if bc, ok := t.World().BlueCoin(args[1]); ok && bc.Title != "" {
		label = bc.Title
	}

	if t.ToggleCoin(ctx, world.CoinKey(zone.ID, args[1])) {
		return s.writeLine(fmt.Sprintf("%s %s collected.", checkMarker(true), label))
	}
	return s.writeLine(fmt.Sprintf("%s %s no longer collected.", checkMarker(false), label))
}

func cmdUnlock(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	id := strings.ToLower(args[0])
	if !t.World().HasUnlock(id) {
		return userErrorf("Unknown unlock %q.", args[0])
	}

	held, err := t.ToggleUnlock(ctx, id)
	if errors.Is(err, tracker.ErrManualOnly) {
		return NewUserError("Unlocks follow the game while auto-track is on. Use 'autotrack off' first.")
	}
	if err != nil {
		return err
	}

	name := unlockName(t.World(), id)
	if held {
		return s.writeLine(fmt.Sprintf("%s %s", checkMarker(true), name))
	}
	return s.writeLine(fmt.Sprintf("%s %s", checkMarker(false), name))
}

func cmdGate(_ context.Context, s *session, _ []string) error {
	t := s.runner.tracker
	g := t.Report().Gate

	var b strings.Builder
	for _, c := range g.Checks {
		shine := colorMuted.Sprint("no requirement")
		if c.ShineID != "" {
			shine, _ = shineName(t.World(), c.ShineID)
		}
		fmt.Fprintf(&b, "%s %-8s %s\n", checkMarker(c.Done), c.Name, shine)
	}
	if g.Open {
		b.WriteString(colorDone.Sprint("Corona Mountain is open."))
	} else {
		b.WriteString(colorDenied.Sprint("Corona Mountain is closed."))
	}
	return s.writeLine(b.String())
}

func cmdStatus(_ context.Context, s *session, _ []string) error {
	t := s.runner.tracker
	live := t.Live()

	var b strings.Builder
	mode := "manual"
	if t.AutoTrack() {
		mode = "auto"
	}
	fmt.Fprintf(&b, "Unlock tracking: %s\n", mode)

	switch {
	case live.UpdatedAt.IsZero():
		b.WriteString("Game hook: " + colorMuted.Sprint("never contacted") + "\n")
	case live.Hooked:
		fmt.Fprintf(&b, "Game hook: %s (%s ago)\n", colorDone.Sprint("connected"), time.Since(live.UpdatedAt).Round(time.Second))
		if live.Location != "" {
			fmt.Fprintf(&b, "Location: %s\n", live.Location)
		}
		if live.Episode != "" {
			fmt.Fprintf(&b, "Episode: %s\n", live.Episode)
		}
		if live.Seed != "" {
			fmt.Fprintf(&b, "Seed: %s\n", live.Seed)
		}
	default:
		b.WriteString("Game hook: " + colorDenied.Sprint("disconnected") + "\n")
	}

	unlocks := t.Unlocks()
	if len(unlocks) == 0 {
		b.WriteString("Unlocks: none")
	} else {
		names := make([]string, 0, len(unlocks))
		for _, id := range unlocks {
			names = append(names, unlockName(t.World(), id))
		}
		b.WriteString(wrap("Unlocks: " + strings.Join(names, ", ")))
	}
	return s.writeLine(b.String())
}

func cmdAutoTrack(ctx context.Context, s *session, args []string) error {
	t := s.runner.tracker
	if len(args) == 0 {
		if t.AutoTrack() {
			return s.writeLine("Auto-track is on.")
		}
		return s.writeLine("Auto-track is off.")
	}

	switch strings.ToLower(args[0]) {
	case "on":
		t.SetAutoTrack(ctx, true)
		return s.writeLine("Auto-track is on. Unlocks now follow the game.")
	case "off":
		t.SetAutoTrack(ctx, false)
		return s.writeLine("Auto-track is off. Toggle unlocks with 'unlock <id>'.")
	default:
		return NewUserError("Usage: autotrack [on|off]")
	}
}

func cmdCollapse(collapsed bool) commandFunc {
	return func(_ context.Context, s *session, args []string) error {
		t := s.runner.tracker
		name, err := findGroup(t.World(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		t.SetCollapsed(groupElementID(name), collapsed)
		if collapsed {
			return s.writeLine(name + " collapsed.")
		}
		return s.writeLine(name + " expanded.")
	}
}

func cmdSave(ctx context.Context, s *session, args []string) error {
	id := s.runner.newSlotID()
	if len(args) > 0 {
		id = args[0]
	}
	if err := storage.ValidateID(id); err != nil {
		return userErrorf("Bad slot name %q: %s.", id, err)
	}

	if err := s.runner.slots.Save(ctx, id, s.runner.tracker.Export()); err != nil {
		return fmt.Errorf("saving slot %s: %w", id, err)
	}
	return s.writeLine(fmt.Sprintf("Saved to slot %s.", id))
}

func cmdLoad(ctx context.Context, s *session, args []string) error {
	id := args[0]
	snap, err := s.runner.slots.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return userErrorf("No slot named %q.", id)
	}
	if err != nil {
		return fmt.Errorf("loading slot %s: %w", id, err)
	}

	ok, err := s.confirm(ctx, "Replace the current progress?")
	if err != nil {
		return err
	}
	if !ok {
		return s.writeLine("Load cancelled.")
	}

	if err := s.runner.tracker.Import(ctx, snap); err != nil {
		if errors.Is(err, snapshot.ErrInvalidSave) {
			return userErrorf("Slot %s cannot be loaded: %s.", id, err)
		}
		return err
	}
	return s.writeLine(fmt.Sprintf("Loaded slot %s.", id))
}

func cmdSlots(ctx context.Context, s *session, _ []string) error {
	ids, err := s.runner.slots.List(ctx)
	if err != nil {
		return fmt.Errorf("listing slots: %w", err)
	}
	if len(ids) == 0 {
		return s.writeLine("No saved slots.")
	}

	var b strings.Builder
	for _, id := range ids {
		snap, err := s.runner.slots.Get(ctx, id)
		if err != nil {
			fmt.Fprintf(&b, "  %-36s %s\n", id, colorDenied.Sprint("unreadable"))
			continue
		}
		saved := colorMuted.Sprint("unknown time")
		if ts := snap.Time(); !ts.IsZero() {
			saved = ts.Local().Format(time.DateTime)
		}
		fmt.Fprintf(&b, "  %-36s %s  %d shines\n", id, saved, len(snap.CollectedShines))
	}
	return s.writeLine(strings.TrimRight(b.String(), "\n"))
}

func cmdDelete(ctx context.Context, s *session, args []string) error {
	id := args[0]
	if _, err := s.runner.slots.Get(ctx, id); errors.Is(err, storage.ErrNotFound) {
		return userErrorf("No slot named %q.", id)
	}

	ok, err := s.confirm(ctx, fmt.Sprintf("Delete slot %s?", id))
	if err != nil {
		return err
	}
	if !ok {
		return s.writeLine("Delete cancelled.")
	}

	err = s.runner.slots.Delete(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return userErrorf("No slot named %q.", id)
	}
	if err != nil {
		return fmt.Errorf("deleting slot %s: %w", id, err)
	}
	return s.writeLine(fmt.Sprintf("Deleted slot %s.", id))
}

func cmdExport(_ context.Context, s *session, _ []string) error {
	return snapshot.Encode(s.w, s.runner.tracker.Export())
}

func cmdQuit(_ context.Context, s *session, _ []string) error {
	s.quit = true
	return nil
}

// routeKey parses a routing key and checks it names a warp entrance or an
// exit of some zone.
func routeKey(w *world.Data, text string) (world.RouteKey, error) {
	key := world.ParseRouteKey(text)
	if key.IsEntrance() {
		e, ok := w.Entrance(key.Local)
		if !ok {
			return key, userErrorf("Unknown entrance %q.", text)
		}
		if !e.IsWarp {
			return key, userErrorf("%s is a plaza shine, not a warp.", e.Name)
		}
		return key, nil
	}

	for id, z := range w.Zones {
		if world.ZoneGroup(id) != key.Group {
			continue
		}
		for _, e := range z.Exits {
			if e.ID == key.Local {
				return key, nil
			}
		}
	}
	return key, userErrorf("Unknown exit %q.", text)
}

func routeError(err error) error {
	switch {
	case errors.Is(err, tracker.ErrFixedRoute):
		return NewUserError("That route is fixed.")
	case errors.Is(err, tracker.ErrUnknownRoute):
		return NewUserError("Unknown routing key.")
	default:
		return err
	}
}

// findGroup matches an entrance group by name, ignoring case. A unique prefix
// is enough.
func findGroup(w *world.Data, text string) (string, error) {
	want := strings.ToLower(strings.TrimSpace(text))
	var matches []string
	for _, g := range w.EntranceGroups() {
		name := strings.ToLower(g)
		if name == want {
			return g, nil
		}
		if strings.HasPrefix(name, want) {
			matches = append(matches, g)
		}
	}

	switch len(matches) {
	case 0:
		return "", userErrorf("Unknown group %q.", text)
	case 1:
		return matches[0], nil
	default:
		return "", userErrorf("%q matches %s.", text, strings.Join(matches, ", "))
	}
}

// shineName finds a shine by id among zone shines and static plaza shines.
func shineName(w *world.Data, id string) (string, bool) {
	for _, e := range w.StaticShines() {
		if e.ID == id {
			return cmp.Or(e.Name, id), true
		}
	}
	for _, z := range w.Zones {
		for _, sh := range z.Shines {
			if sh.ID == id {
				return cmp.Or(sh.Name, id), true
			}
		}
	}
	return "", false
}

func groupElementID(group string) string {
	return "group-" + strings.ReplaceAll(strings.ToLower(group), " ", "-")
}
