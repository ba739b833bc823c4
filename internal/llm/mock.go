package llm

import "context"

type mockGenerator struct {
	reply string
	err   error
}

// NewMockGenerator returns a Generator that always answers with reply.
func NewMockGenerator(reply string) Generator {
	return &mockGenerator{reply: reply}
}

// NewFailingGenerator returns a Generator that always fails with err.
func NewFailingGenerator(err error) Generator {
	return &mockGenerator{err: err}
}

func (m *mockGenerator) Reply(ctx context.Context, history []Turn, userText string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}
