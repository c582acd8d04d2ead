package remote

// RouteLogin is where an unauthorized call sends the user.
const RouteLogin = "/login"

// Notifier shows transient toasts.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Navigator switches the app to another screen.
type Navigator interface {
	Navigate(route string)
}

type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

type nopNotifier struct{}

func (nopNotifier) Success(string) {}
func (nopNotifier) Error(string)   {}

type nopNavigator struct{}

func (nopNavigator) Navigate(string) {}
