package render

import (
	"fmt"
	"strconv"
	"time"

	"github.com/arthur-debert/ovm/pkg/batch"
	"github.com/arthur-debert/ovm/pkg/commands/run"
	"github.com/arthur-debert/ovm/pkg/types"
	"github.com/beevik/etree"
)

// testCase is one JUnit test case
type testCase struct {
	ClassName string
	Name      string
	Duration  time.Duration
	Failure   string
	Output    string
}

// testSuite is one JUnit test suite
type testSuite struct {
	Name     string
	Duration time.Duration
	Cases    []testCase
}

func (s testSuite) failures() int {
	n := 0
	for _, c := range s.Cases {
		if c.Failure != "" {
			n++
		}
	}
	return n
}

// pluginSuite has one case per plugin outcome, classed by vault
func pluginSuite(report *batch.Report[types.TargetResult]) testSuite {
	suite := testSuite{Name: "ovm " + report.Command, Duration: report.Duration}
	for _, res := range report.Ordered() {
		if res.Err != nil && len(res.Value.Outcomes) == 0 {
			suite.Cases = append(suite.Cases, testCase{
				ClassName: res.Vault.Name,
				Name:      res.Vault.Path,
				Duration:  res.Duration,
				Failure:   res.Err.Error(),
			})
			continue
		}
		for _, o := range res.Value.Outcomes {
			c := testCase{
				ClassName: res.Vault.Name,
				Name:      o.Plugin.ID,
				Output:    string(o.Kind),
			}
			if o.IsFailure() {
				c.Failure = firstNonEmpty(errString(o.Err), string(o.Kind))
			}
			suite.Cases = append(suite.Cases, c)
		}
	}
	return suite
}

// runSuite has one case per vault
func runSuite(result *run.Result) testSuite {
	suite := testSuite{Name: "ovm " + result.Report.Command, Duration: result.Report.Duration}
	for _, res := range result.Report.Ordered() {
		c := testCase{
			ClassName: res.Vault.Name,
			Name:      res.Value.Command,
			Duration:  res.Duration,
			Output:    res.Value.Stdout,
		}
		if !res.Success {
			c.Failure = firstNonEmpty(res.Value.Error, errString(res.Err), "failed")
		}
		suite.Cases = append(suite.Cases, c)
	}
	return suite
}

func (r *Renderer) junit(suite testSuite) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("testsuites")
	el := root.CreateElement("testsuite")
	el.CreateAttr("name", suite.Name)
	el.CreateAttr("tests", strconv.Itoa(len(suite.Cases)))
	el.CreateAttr("failures", strconv.Itoa(suite.failures()))
	el.CreateAttr("errors", "0")
	el.CreateAttr("time", formatSeconds(suite.Duration))

	for _, c := range suite.Cases {
		tc := el.CreateElement("testcase")
		tc.CreateAttr("classname", c.ClassName)
		tc.CreateAttr("name", c.Name)
		tc.CreateAttr("time", formatSeconds(c.Duration))
		if c.Failure != "" {
			failure := tc.CreateElement("failure")
			failure.CreateAttr("message", c.Failure)
		}
		if c.Output != "" {
			tc.CreateElement("system-out").SetText(c.Output)
		}
	}

	doc.Indent(2)
	_, err := doc.WriteTo(r.Out)
	return err
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.3f", d.Seconds())
}
