package pipeline

// Pipeline runs an ordered sequence of processing stages over a Context.
type Pipeline struct {
	processors []Processor
}

func NewPipeline(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes every stage in order, stopping early once a stage has
// recorded a fatal syntax error (later stages all assume a valid AstRoot).
func (p *Pipeline) Run(ctx *Context) *Context {
	for _, proc := range p.processors {
		ctx = proc.Process(ctx)
		if len(ctx.Errors) > 0 {
			break
		}
	}
	return ctx
}
