// Package cli implements the interactive account client.
//
// The REPL dispatches to the auth, signup, and profile flows. The prompt
// shows the logged-in email and the current route; commands that mutate the
// profile operate on the edit draft owned by the profile controller.
//
// Commands
//
//	Not logged in:
//	  - help           — show available commands
//	  - signup         — create an account (interactive form)
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - show                     — display the profile
//	  - edit                     — open an edit session
//	  - set <field> <value>      — change a draft field
//	  - setedu <field> <value>   — change an education draft field
//	  - phone <number> <cc>      — change the phone number and country code
//	  - ongoing <true|false>     — toggle the education ongoing flag
//	  - save | cancel            — close the edit session
//	  - avatar <path>            — replace the profile picture
//	  - cv <path>                — replace the CV document
//	  - preview                  — show how the CV would be displayed
//	  - logout                   — clear the session
//	  - exit | quit              — leave the program
package cli
