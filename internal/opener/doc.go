// Package opener hands URLs to the operating system's default handler
// (xdg-open, open, or rundll32), or to a user-configured command.
package opener
