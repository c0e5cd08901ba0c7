package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface defines the command surface the REPL dispatches to. The real
// App type satisfies it; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	prompt() string

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context)
	WhoAmI()

	ShowNotes(ctx context.Context)
	ShowNote(ctx context.Context, id int64)
	AddNote(ctx context.Context) error
	EditNote(ctx context.Context, id int64) error
	DeleteNote(ctx context.Context, id int64)
	ToggleNote(ctx context.Context, id int64, arg string)
	ToggleProject(ctx context.Context, key, arg string)

	ShowProjects(ctx context.Context)
	AddProject(ctx context.Context) error
	EditProject(ctx context.Context, id int64) error
	DeleteProject(ctx context.Context, id int64)

	ShowUsers(ctx context.Context)
	AddUser(ctx context.Context) error
	SetUserActive(ctx context.Context, id int64, arg string)
	SetUserAdmin(ctx context.Context, id int64, arg string)
	DeleteUser(ctx context.Context, id int64)
}

const helpLoggedOut = `Available commands:
  login                     authenticate
  register                  create an account
  notes                     list public notes
  note <id>                 show a note
  exit | quit               leave`

const helpLoggedIn = `Available commands:
  notes                     list notes grouped by project
  note <id>                 show a note
  addnote                   create a note (admin)
  editnote <id>             edit a note
  delnote <id>              delete a note
  pubnote <id> on|off       make a note public or private
  pubproject <key> on|off   make a whole project group public or private
  projects                  list projects (admin)
  addproject                create a project (admin)
  editproject <id>          edit a project (admin)
  delproject <id>           delete a project (admin)
  users                     list users (admin)
  adduser                   create a user (admin)
  useractive <id> on|off    enable or disable a user (admin)
  useradmin <id> on|off     grant or revoke admin rights (admin)
  deluser <id>              delete a user (admin)
  whoami                    show the current session
  logout                    log out
  exit | quit               leave`

// parseID reads the numeric argument at position i, printing usage otherwise.
func parseID(out io.Writer, parts []string, usage string) (int64, bool) {
	if len(parts) < 2 {
		fmt.Fprintf(out, "Usage: %s\n", usage)
		return 0, false
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		fmt.Fprintf(out, "Not an id: %s\n", parts[1])
		return 0, false
	}
	return id, true
}

// runREPL reads lines, parses the first token as the command and dispatches
// to 'a'. It exits on read errors, EOF, or exit/quit. Handlers report their
// own errors; the loop only stops when input does.
func runREPL(ctx context.Context, a execIface, reader LineReader, out io.Writer) {
	for {
		reader.SetPrompt(a.prompt())
		line, err := reader.Readline()
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := strings.ToLower(parts[0])

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				fmt.Fprintln(out, helpLoggedIn)
			} else {
				fmt.Fprintln(out, helpLoggedOut)
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			a.WhoAmI()

		case "notes", "ls":
			a.ShowNotes(ctx)

		case "note", "show":
			if id, ok := parseID(out, parts, "note <id>"); ok {
				a.ShowNote(ctx, id)
			}

		case "addnote":
			_ = a.AddNote(ctx)

		case "editnote":
			if id, ok := parseID(out, parts, "editnote <id>"); ok {
				_ = a.EditNote(ctx, id)
			}

		case "delnote":
			if id, ok := parseID(out, parts, "delnote <id>"); ok {
				a.DeleteNote(ctx, id)
			}

		case "pubnote":
			if len(parts) < 3 {
				fmt.Fprintln(out, "Usage: pubnote <id> on|off")
				continue
			}
			if id, ok := parseID(out, parts, "pubnote <id> on|off"); ok {
				a.ToggleNote(ctx, id, parts[2])
			}

		case "pubproject":
			if len(parts) < 3 {
				fmt.Fprintln(out, "Usage: pubproject <key> on|off")
				continue
			}
			a.ToggleProject(ctx, parts[1], parts[2])

		case "projects":
			a.ShowProjects(ctx)

		case "addproject":
			_ = a.AddProject(ctx)

		case "editproject":
			if id, ok := parseID(out, parts, "editproject <id>"); ok {
				_ = a.EditProject(ctx, id)
			}

		case "delproject":
			if id, ok := parseID(out, parts, "delproject <id>"); ok {
				a.DeleteProject(ctx, id)
			}

		case "users":
			a.ShowUsers(ctx)

		case "adduser":
			_ = a.AddUser(ctx)

		case "useractive":
			if len(parts) < 3 {
				fmt.Fprintln(out, "Usage: useractive <id> on|off")
				continue
			}
			if id, ok := parseID(out, parts, "useractive <id> on|off"); ok {
				a.SetUserActive(ctx, id, parts[2])
			}

		case "useradmin":
			if len(parts) < 3 {
				fmt.Fprintln(out, "Usage: useradmin <id> on|off")
				continue
			}
			if id, ok := parseID(out, parts, "useradmin <id> on|off"); ok {
				a.SetUserAdmin(ctx, id, parts[2])
			}

		case "logout":
			a.Logout(ctx)

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}
	}
}

// Run drives the REPL until the user leaves.
func (a *App) Run(ctx context.Context) {
	runREPL(ctx, a, a.reader, a.out)
}
