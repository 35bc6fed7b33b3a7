package session

// Client-side routes navigated to by the session layer.
const (
	RouteLogin   = "/login"
	RouteProfile = "/profile"
)

// Navigator receives route-change signals. The view layer decides what a
// route change looks like (the CLI prints it, a GUI would switch screens).
type Navigator interface {
	Navigate(route string)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }
