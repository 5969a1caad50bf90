package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/hiraubaid75/ckd-prediction-system/internal/config"
	"github.com/hiraubaid75/ckd-prediction-system/internal/domain/ckd"
	"github.com/hiraubaid75/ckd-prediction-system/internal/platform/classifier"
)

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score one clinical record from a JSON file, or the form defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, _ := cmd.Flags().GetString("model")
			recordPath, _ := cmd.Flags().GetString("record")
			asJSON, _ := cmd.Flags().GetBool("json")

			model, err := classifier.Load(modelPath)
			if err != nil {
				return err
			}
			svc := ckd.NewService(model, nil, zerolog.Nop(), nil)

			var pred *ckd.Prediction
			if recordPath == "" {
				pred, err = svc.Predict(cmd.Context(), ckd.DefaultRecord())
			} else {
				values, rerr := readRecord(recordPath)
				if rerr != nil {
					return rerr
				}
				pred, err = svc.PredictValues(cmd.Context(), values)
			}
			if errors.Is(err, ckd.ErrInvalidInput) {
				return err
			}
			if err != nil {
				return fmt.Errorf("prediction error: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(pred)
			}
			fmt.Fprintf(out, "Probability of CKD: %.2f\n", pred.Probability)
			fmt.Fprintln(out, pred.Label.Message())
			return nil
		},
	}
	cmd.Flags().String("model", config.DefaultModelPath, "Path to the exported classifier")
	cmd.Flags().String("record", "", "JSON object of field name to value; the form defaults when empty")
	cmd.Flags().Bool("json", false, "Print the prediction as JSON")
	return cmd
}

func readRecord(path string) (map[string]interface{}, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}
	var values map[string]interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	return values, nil
}

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Classifier artifact tools",
	}

	// model inspect
	inspectCmd := &cobra.Command{
		Use:   "inspect",
		Short: "Validate an exported classifier and print its description",
		RunE: func(cmd *cobra.Command, args []string) error {
			modelPath, _ := cmd.Flags().GetString("model")

			model, err := classifier.Load(modelPath)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(model.Info()); err != nil {
				return err
			}

			svc := ckd.NewService(model, nil, zerolog.Nop(), nil)
			unknown, uncollected := svc.SchemaMismatch()
			for _, f := range unknown {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: form field %q is not a model feature\n", f)
			}
			for _, f := range uncollected {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: model feature %q is not collected by the form\n", f)
			}
			return nil
		},
	}
	inspectCmd.Flags().String("model", config.DefaultModelPath, "Path to the exported classifier")
	cmd.AddCommand(inspectCmd)

	return cmd
}
