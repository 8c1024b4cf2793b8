package todo

// Option заменяет поле задачи целиком, частичных обновлений нет.
type Option func(*Todo)

func WithDone(done bool) Option {
	return func(t *Todo) {
		t.Done = done
	}
}

func WithContent(content string) Option {
	if content == "" {
		return nil
	}
	return func(t *Todo) {
		t.Content = content
	}
}

// Apply пропускает nil-опции, которые возвращают конструкторы при пустом значении.
func Apply(t *Todo, options ...Option) {
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(t)
	}
}
