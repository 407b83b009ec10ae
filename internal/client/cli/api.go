package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/leadsession/internal/client/session"
	"github.com/dmitrijs2005/leadsession/internal/netx"
)

var errUsage = errors.New("usage")

// Get runs "get <endpoint> [key=value ...]"; pairs become query parameters.
func (a *App) Get(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: get <endpoint> [key=value ...]")
		return errUsage
	}
	q, err := parsePairs(args[1:])
	if err != nil {
		return a.report(err)
	}
	raw, err := a.session.Get(ctx, args[0], withQuery(q)...)
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

// Post runs "post <endpoint>" and reads a JSON body from the prompt.
func (a *App) Post(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: post <endpoint>")
		return errUsage
	}
	text, err := getMultiline(a.reader, "JSON body", a.out)
	if err != nil {
		return err
	}
	var body any
	if text != "" {
		if err := json.Unmarshal([]byte(text), &body); err != nil {
			return a.report(fmt.Errorf("invalid JSON: %w", err))
		}
	}
	raw, err := a.session.Post(ctx, args[0], body)
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

// Delete runs "delete <endpoint>".
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: delete <endpoint>")
		return errUsage
	}
	raw, err := a.session.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

// Upload runs "upload <endpoint> <file>" and prompts for extra form fields.
func (a *App) Upload(ctx context.Context, args []string) error {
	if len(args) < 2 {
		fmt.Fprintln(a.out, "Usage: upload <endpoint> <file>")
		return errUsage
	}
	lines, err := getMetadata(a.reader, a.out)
	if err != nil {
		return err
	}
	fields, err := parsePairs(lines)
	if err != nil {
		return a.report(err)
	}

	b := netx.NewFormBuilder()
	for k, vs := range fields {
		for _, v := range vs {
			b.Field(k, v)
		}
	}
	form, err := b.FileFromPath("file", args[1]).Build()
	if err != nil {
		return a.report(err)
	}

	raw, err := a.session.PostForm(ctx, args[0], form)
	if err != nil {
		return err
	}
	return a.printJSON(raw)
}

// Profile prompts for a new display name and an optional avatar file.
func (a *App) Profile(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	avatar, err := getSimpleText(a.reader, "Avatar file (empty to skip)", a.out)
	if err != nil {
		return err
	}

	b := netx.NewFormBuilder().Field("name", name)
	if avatar != "" {
		b.FileFromPath("avatar", avatar)
	}
	form, err := b.Build()
	if err != nil {
		return a.report(err)
	}

	u, err := a.session.UpdateProfile(ctx, form)
	if err != nil {
		return err
	}
	if u != nil {
		fmt.Fprintf(a.out, "Profile updated: %s\n", u.Name)
	}
	return nil
}

// Groups runs "groups [userID]".
func (a *App) Groups(ctx context.Context, args []string) error {
	userID := ""
	if len(args) > 0 {
		userID = args[0]
	}
	groups := a.session.UserGroups(ctx, userID)
	if len(groups) == 0 {
		fmt.Fprintln(a.out, "No groups")
		return nil
	}
	for _, g := range groups {
		if err := a.printJSON(g); err != nil {
			return err
		}
	}
	return nil
}

// CreateGroup runs "group-create <name> [memberID...]".
func (a *App) CreateGroup(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: group-create <name> [memberID...]")
		return errUsage
	}
	raw, err := a.session.CreateGroup(ctx, map[string]any{"name": args[0], "members": args[1:]})
	if err != nil {
		return a.report(err)
	}
	return a.printJSON(raw)
}

// Conversations prints the group chats of the signed-in user.
func (a *App) Conversations(ctx context.Context) error {
	raw, err := a.session.GroupConversations(ctx)
	if err != nil {
		return a.report(err)
	}
	return a.printJSON(raw)
}

// GroupIDs runs "group-ids [userID]".
func (a *App) GroupIDs(ctx context.Context, args []string) error {
	userID := ""
	if len(args) > 0 {
		userID = args[0]
	}
	raw, err := a.session.UserGroupIDs(ctx, userID)
	if err != nil {
		return a.report(err)
	}
	return a.printJSON(raw)
}

// File runs "file <path>" and prints the absolute URL.
func (a *App) File(_ context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(a.out, "Usage: file <path>")
		return errUsage
	}
	fmt.Fprintln(a.out, a.session.FileURL(args[0]))
	return nil
}

func (a *App) report(err error) error {
	fmt.Fprintln(a.out, "error:", err)
	return err
}

func (a *App) printJSON(raw json.RawMessage) error {
	if len(raw) == 0 {
		fmt.Fprintln(a.out, "(empty response)")
		return nil
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		fmt.Fprintln(a.out, string(raw))
		return nil
	}
	fmt.Fprintln(a.out, buf.String())
	return nil
}

func withQuery(q url.Values) []session.CallOption {
	if len(q) == 0 {
		return nil
	}
	return []session.CallOption{session.WithQuery(q)}
}

// parsePairs turns "name=value" strings into url.Values.
func parsePairs(lines []string) (url.Values, error) {
	out := url.Values{}
	for _, line := range lines {
		k, v, ok := strings.Cut(line, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("expected name=value, got %q", line)
		}
		out.Add(k, strings.TrimSpace(v))
	}
	return out, nil
}
