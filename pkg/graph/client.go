package graph

import (
	"fmt"
	"time"

	"github.com/pkoukk/tiktoken-go"
)

// GraphClient runs the contingency extraction pipeline. It holds only
// configuration; every Analyze call owns its own network, so one GraphClient
// may serve concurrent analyses.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	encoder           *tiktoken.Tiktoken
	contextWarnTokens int

	maxRetries     int
	retryBaseDelay time.Duration
	temperature    float64

	enableConditions bool
	enableModulating bool

	now func() time.Time
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// TokenEncoder names the tiktoken encoding used to measure prompts; empty
// disables prompt accounting. ContextWarnTokens logs a warning for prompts
// above that size. MaxRetries is the number of generation attempts per stage
// (default 3) and RetryBaseDelay the wait after the first failed attempt,
// doubling after each further one. EnableConditions and EnableModulating
// switch on the two optional stages.
type NewGraphClientParams struct {
	TokenEncoder      string
	ContextWarnTokens int

	MaxRetries     int
	RetryBaseDelay time.Duration
	Temperature    float64

	EnableConditions bool
	EnableModulating bool

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client, err := graph.NewGraphClient(graph.NewGraphClientParams{
//		TokenEncoder:   "o200k_base",
//		MaxRetries:     3,
//		RetryBaseDelay: 2 * time.Second,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
func NewGraphClient(params NewGraphClientParams) (*GraphClient, error) {
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 3
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}

	g := &GraphClient{
		contextWarnTokens: params.ContextWarnTokens,
		maxRetries:        maxRetries,
		retryBaseDelay:    params.RetryBaseDelay,
		temperature:       params.Temperature,
		enableConditions:  params.EnableConditions,
		enableModulating:  params.EnableModulating,
		now:               now,
	}

	if params.TokenEncoder != "" {
		enc, err := tiktoken.GetEncoding(params.TokenEncoder)
		if err != nil {
			return nil, fmt.Errorf("load token encoder %q: %w", params.TokenEncoder, err)
		}
		g.encoder = enc
	}

	return g, nil
}

// Stages returns the pipeline in execution order.
func (g *GraphClient) Stages() []Stage {
	stages := []Stage{
		subjectsStage{},
		actionsStage{},
		stimuliStage{},
		antecedentStage{},
		consequentStage{},
	}
	if g.enableConditions {
		stages = append(stages, conditionsStage{})
	}
	if g.enableModulating {
		stages = append(stages, modulatingStage{})
	}
	return append(stages,
		hypothesesStage{now: g.now},
		timelineStage{},
	)
}

func (g *GraphClient) countTokens(parts ...string) int {
	if g.encoder == nil {
		return 0
	}
	total := 0
	for _, p := range parts {
		total += len(g.encoder.Encode(p, nil, nil))
	}
	return total
}
