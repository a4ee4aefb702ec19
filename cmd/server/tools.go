package main

import (
	"fmt"

	"aidocs-ingest/internal/classifier"
	"aidocs-ingest/internal/config"
	"aidocs-ingest/internal/query"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// ------------------------------------------------------------
// 운영 보조 명령. 서버 없이 분류 / 쿼리 렌더링 결과를 확인한다.
// ------------------------------------------------------------

var (
	classifyUA     string
	classifyAccept string
	classifyHost   string

	renderName string
	renderHost string
)

// classifyCmd 는 분류 결과와 결정한 규칙 이름을 JSON 으로 출력한다.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify a visitor from its User-Agent, Accept and host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, rule := classifier.Evaluate(classifier.Input{
			UserAgent:    classifyUA,
			AcceptHeader: classifyAccept,
			Host:         classifyHost,
		})

		out, err := json.MarshalIndent(struct {
			classifier.Classification
			Rule     string `json:"rule"`
			PageView bool   `json:"page_view"`
		}{c, rule, classifier.IsPageView(classifyAccept)}, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

// renderQueryCmd 는 원격 엔진으로 보내질 SQL 을 출력만 한다 (전송하지 않음).
var renderQueryCmd = &cobra.Command{
	Use:   "render-query",
	Short: "Print the SQL a named query renders to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configFile)
		if err != nil {
			return err
		}

		name := renderName
		if name == "" {
			name = query.DefaultQuery
		}

		sql, err := query.NewCatalog(cfg.VisitsDataset, cfg.RawDataset).Render(name, renderHost)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), sql)
		return err
	},
}

func init() {
	classifyCmd.Flags().StringVar(&classifyUA, "ua", "", "User-Agent header")
	classifyCmd.Flags().StringVar(&classifyAccept, "accept", "", "Accept header")
	classifyCmd.Flags().StringVar(&classifyHost, "host", "unknown", "requested host")

	renderQueryCmd.Flags().StringVar(&renderName, "name", query.DefaultQuery, "query name")
	renderQueryCmd.Flags().StringVar(&renderHost, "host", "", "optional host filter")
}
