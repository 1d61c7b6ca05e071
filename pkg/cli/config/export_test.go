package config

// Test helpers to set unexported fields without going through CLI parsing.

func (w *Workflow) SetPath(path string) {
	w.path = path
}

func (n *Notify) SetWebhook(defaultURL string, typeURLs []string) {
	n.webhookURL = defaultURL
	n.webhookTypeURLs = typeURLs
}

func (a *Auth) SetNoAuth(userID, email, name, role string) {
	a.noAuthUserID = userID
	a.noAuthEmail = email
	a.noAuthName = name
	a.noAuthRole = role
}

func (l *Logger) SetOptions(level, format, output string) {
	l.level = level
	l.format = format
	l.output = output
}
