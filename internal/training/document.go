package training

// Document renders the experiment document consumed by the training
// framework. The shape follows the framework's registrable sections.
func (c Config) Document() map[string]any {
	bidafUtils := map[string]any{
		"bidaf_model_path": c.BidafModelPath,
	}
	if c.BidafWordEmbeddingFile != "" {
		bidafUtils["bidaf_wordemb_file"] = c.BidafWordEmbeddingFile
	}

	return map[string]any{
		"dataset_reader": map[string]any{
			"type":                 DatasetReaderType,
			"lazy":                 false,
			"min_passage_length":   c.MinPassageLength,
			"max_passage_length":   c.MaxPassageLength,
			"max_span_length":      c.MaxSpanLength,
			"num_training_samples": c.NumTrainingSamples,
			"attnval":              c.AttnValue,
			"normalized":           c.Normalized,
			"withnoise":            c.WithNoise,
		},
		"train_data_path":      c.TrainDataPath,
		"validation_data_path": c.ValidationDataPath,
		"model": map[string]any{
			"type":                 ModelType,
			"action_embedding_dim": ActionEmbeddingDim,
			"num_highway_layers":   NumHighwayLayers,
			"bidafutils":           bidafUtils,
			"dropout":              c.Dropout,
			"max_decoding_steps":   c.MaxDecodingSteps,
			"decoder_beam_search": map[string]any{
				"beam_size": c.BeamSize,
			},
			"goldactions":        c.GoldActions,
			"aux_goldprog_loss":  c.AuxGoldProgLoss,
			"qatt_coverage_loss": c.QAttCoverageLoss,
			"debug":              c.Debug,
		},
		"iterator": map[string]any{
			"type":       IteratorType,
			"batch_size": c.BatchSize,
		},
		"trainer": map[string]any{
			"num_epochs":        c.NumEpochs,
			"patience":          c.Patience,
			"cuda_device":       c.CUDADevice,
			"validation_metric": ValidationMetric,
			"optimizer": map[string]any{
				"type":         OptimizerType,
				"lr":           c.LearningRate,
				"weight_decay": c.WeightDecay,
			},
		},
	}
}
