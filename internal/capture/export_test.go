package capture

// Test hooks into unexported pipeline state.

func (p *Pipeline) QueueLen() int { return p.queue.Len() }
func (p *Pipeline) CloseQueue()   { p.queue.Close() }
