package signals

import (
	"fmt"

	"github.com/tosih/ecux-analyzer/pkg/models"
	"github.com/tosih/ecux-analyzer/pkg/vector"
)

const maxRetardChannel = 8

func init() {
	register("IgnitionTimingAngleOverallDesired", Formula{
		Requires: []string{"IgnitionTimingAngleOverall"},
		Compute: func(c *Context) (*models.Column, error) {
			out := c.Get("IgnitionTimingAngleOverall")
			var sum vector.Vector
			n := 0
			for i := 0; i <= maxRetardChannel; i++ {
				retard := c.Optional(fmt.Sprintf("IgnitionRetardCyl%d", i))
				if retard == nil {
					continue
				}
				if sum == nil {
					sum = retard.Data
				} else {
					sum = sum.Add(retard.Data)
				}
				n++
			}
			// some loggers record retard as negative
			if n > 0 {
				out = out.Add(sum.DivConst(float64(n)).Abs())
			}
			return c.Out(out, "°"), nil
		},
	})
	register("Calc LoadSpecified correction", Formula{
		RequiresRaw: []string{"EngineLoadCorrected", "EngineLoadSpecified"},
		Compute: func(c *Context) (*models.Column, error) {
			return c.Out(c.Raw("EngineLoadCorrected").Div(c.Raw("EngineLoadSpecified")), "K"), nil
		},
	})
}
