// Package cli implements the interactive todokeeper command line client.
//
// The REPL accepts:
//
//	register          create an account (username, email, password)
//	login             authenticate with username or email
//	add               create a task (title, description, state)
//	list [state]      list tasks, optionally only those in state
//	done <id>         mark a task as done
//	rm <id>           delete a task
//	refresh           renew the access token
//	whoami            show the logged-in user
//	logout            forget the access token
//	exit | quit       leave the program
//
// Passwords are read without echo and wiped once sent.
package cli
