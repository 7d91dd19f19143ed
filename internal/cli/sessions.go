// Copyright (c) 2025 Sugar Labs
// SPDX-License-Identifier: GPL-2.0-or-later

// sessions.go - Saved-conversation commands for sugarai.
//
// Command: sugarai sessions [list|show|export|search|delete|clear]
// Short:   Manage saved chat sessions
//
// Examples:
//
//	sugarai sessions                    # list, most recent first
//	sugarai sessions show 1             # 1 is the most recent session
//	sugarai sessions export 2 --format json --output chat.json
//	sugarai sessions export 1 --format html --output chat.html
//	sugarai sessions search sprites
//	sugarai sessions delete 3 --confirm
//	sugarai sessions clear --confirm
//
// Sessions are referenced by their 1-based list index (1 is the most
// recent) or by the full ID shown in the list. The same references
// work with "sugarai chat --resume" and the /resume chat command.

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sugarlabs/sugarai-tui/internal/export"
	"github.com/sugarlabs/sugarai-tui/internal/model"
	"github.com/sugarlabs/sugarai-tui/internal/storage"
)

// sessionExport is the JSON export shape.
// SECURITY: the API key stored alongside the transcript is omitted.
type sessionExport struct {
	ID      string               `json:"id"`
	Entries []model.HistoryEntry `json:"entries"`
}

// ===== DISPATCH =====

// HandleSessions routes the sessions subcommands.
func HandleSessions(args Args) error {
	store, err := storage.NewSessionStore()
	if err != nil {
		return WrapError(err, "opening session store")
	}

	parser := NewArgParser(args.Raw)
	switch parser.Subcommand() {
	case "", "list", "ls", "l":
		return handleSessionsList(args, store)
	case "show", "view":
		return handleSessionsShow(args, store, parser)
	case "export":
		return handleSessionsExport(args, store, parser)
	case "search", "find":
		return handleSessionsSearch(args, store, parser)
	case "delete", "rm":
		return handleSessionsDelete(args, store, parser)
	case "clear", "delete-all":
		return handleSessionsClear(args, store, parser)
	default:
		return NewValidationErrorWithExample("subcommand", parser.Subcommand(),
			"unknown sessions subcommand", "list, show, export, search, delete, clear")
	}
}

// ===== LIST =====

func handleSessionsList(args Args, store *storage.SessionStore) error {
	metas, err := store.List()
	if err != nil {
		return WrapError(err, "listing sessions")
	}

	if args.JSON {
		return NewJSONResponse("sessions", metas).Print()
	}

	fmt.Println(storage.FormatSessionList(metas))
	return nil
}

// ===== SHOW =====

func handleSessionsShow(args Args, store *storage.SessionStore, parser *ArgParser) error {
	id, err := resolveSessionID(store, parser.Positional(0))
	if err != nil {
		return err
	}

	if args.JSON {
		file, err := store.Load(id)
		if err != nil {
			return err
		}
		return NewJSONResponse("sessions",
			sessionExport{ID: id, Entries: file.ConversationHistory}).Print()
	}

	md, err := store.ExportMarkdown(id)
	if err != nil {
		return WrapError(err, "rendering session")
	}

	if IsStdoutTTY() {
		fmt.Println(renderMarkdown(md))
	} else {
		fmt.Println(md)
	}
	return nil
}

// ===== EXPORT =====

func handleSessionsExport(args Args, store *storage.SessionStore, parser *ArgParser) error {
	id, err := resolveSessionID(store, parser.Positional(0))
	if err != nil {
		return err
	}

	format := strings.ToLower(parser.FlagOrDefault("format", "md"))

	var content string
	switch format {
	case "md", "markdown":
		content, err = store.ExportMarkdown(id)
		if err != nil {
			return WrapError(err, "exporting session")
		}
	case "json":
		file, err := store.Load(id)
		if err != nil {
			return err
		}
		buf, err := json.MarshalIndent(sessionExport{ID: id, Entries: file.ConversationHistory}, "", "  ")
		if err != nil {
			return WrapError(err, "encoding session")
		}
		content = string(buf)
	case "html":
		file, err := store.Load(id)
		if err != nil {
			return err
		}
		exporter := export.NewHTMLExporter(&export.Options{
			Theme: strings.ToLower(parser.FlagOrDefault("theme", "light")),
		})
		buf, err := exporter.Export(&export.Transcript{
			ID:      id,
			SavedAt: sessionSavedAt(store, id),
			Entries: file.ConversationHistory,
		})
		if err != nil {
			return WrapError(err, "rendering session")
		}
		content = strings.TrimRight(string(buf), "\n")
	default:
		return ErrUnsupportedFormat(format, []string{"md", "json", "html"})
	}

	if output := parser.Flag("output"); output != "" {
		if err := os.WriteFile(output, []byte(content+"\n"), 0600); err != nil {
			return WrapError(err, "writing "+output)
		}
		if args.JSON {
			return NewJSONResponse("sessions",
				map[string]string{"exported": id, "format": format, "output": output}).Print()
		}
		fmt.Printf("%s Exported session %s to %s\n", SuccessStyle.Render("[OK]"), id, output)
		return nil
	}

	fmt.Println(content)
	return nil
}

// ===== SEARCH =====

func handleSessionsSearch(args Args, store *storage.SessionStore, parser *ArgParser) error {
	query := JoinPositionalArgs(parser.PositionalFrom(0))
	if query == "" {
		return ErrMissingArgument("query", "sugarai sessions search sprites")
	}

	metas, err := store.Search(query)
	if err != nil {
		return WrapError(err, "searching sessions")
	}

	if args.JSON {
		return NewJSONResponse("sessions", metas).Print()
	}

	if len(metas) == 0 {
		fmt.Printf("No sessions matching %q.\n", query)
		return nil
	}
	fmt.Println(storage.FormatSessionList(metas))
	return nil
}

// ===== DELETE =====

func handleSessionsDelete(args Args, store *storage.SessionStore, parser *ArgParser) error {
	id, err := resolveSessionID(store, parser.Positional(0))
	if err != nil {
		return err
	}

	if !parser.BoolFlag("confirm") {
		if !IsTTY() {
			return NewValidationError("confirm", "", "pass --confirm to delete without a prompt")
		}
		ok, err := promptYesNo(fmt.Sprintf("Delete session %s?", id), false)
		if err != nil {
			return WrapError(err, "reading confirmation")
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := store.Delete(id); err != nil {
		return WrapError(err, "deleting session")
	}

	if args.JSON {
		return NewJSONResponse("sessions", map[string]string{"deleted": id}).Print()
	}
	fmt.Printf("%s Deleted session %s\n", SuccessStyle.Render("[OK]"), id)
	return nil
}

// ===== CLEAR =====

func handleSessionsClear(args Args, store *storage.SessionStore, parser *ArgParser) error {
	metas, err := store.List()
	if err != nil {
		return WrapError(err, "listing sessions")
	}
	if len(metas) == 0 {
		fmt.Println("No sessions to delete.")
		return nil
	}

	if !parser.BoolFlag("confirm") {
		if !IsTTY() {
			return NewValidationError("confirm", "", "pass --confirm to delete without a prompt")
		}
		ok, err := promptYesNo(fmt.Sprintf("Delete all %d sessions?", len(metas)), false)
		if err != nil {
			return WrapError(err, "reading confirmation")
		}
		if !ok {
			fmt.Println("Aborted.")
			return nil
		}
	}

	if err := store.Clear(); err != nil {
		return WrapError(err, "clearing sessions")
	}

	if args.JSON {
		return NewJSONResponse("sessions", map[string]int{"deleted": len(metas)}).Print()
	}
	fmt.Printf("%s Deleted %d sessions\n", SuccessStyle.Render("[OK]"), len(metas))
	return nil
}

// sessionSavedAt looks up the session's save time for the HTML export
// header. Missing metadata just drops the date from the page.
func sessionSavedAt(store *storage.SessionStore, id string) time.Time {
	metas, err := store.List()
	if err != nil {
		return time.Time{}
	}
	for _, meta := range metas {
		if meta.ID == id {
			return meta.SavedAt
		}
	}
	return time.Time{}
}

// ===== REFERENCES =====

// resolveSessionID turns a session reference into a stored session ID.
// A reference is either a 1-based list index (1 is the most recent
// session) or a full session ID.
func resolveSessionID(store *storage.SessionStore, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", ErrMissingArgument("session", "sugarai sessions show 1")
	}

	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 {
			return "", NewValidationError("session", ref,
				"index is 1-based; 1 is the most recent session")
		}
		metas, err := store.List()
		if err != nil {
			return "", WrapError(err, "listing sessions")
		}
		if n > len(metas) {
			return "", fmt.Errorf("session %d: %w (%d saved)", n, storage.ErrSessionNotFound, len(metas))
		}
		return metas[n-1].ID, nil
	}

	// Full IDs are verified up front so callers get a session-not-found
	// error instead of a bare file path error.
	if _, err := store.Load(ref); err != nil {
		return "", err
	}
	return ref, nil
}
