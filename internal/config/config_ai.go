package config

// applyOperationDefaults applies global defaults to operation-specific configuration
func (c *Config) applyOperationDefaults(opCfg *OperationAIConfig) {
	if opCfg.Provider == "" {
		opCfg.Provider = c.AI.Provider
	}
	if opCfg.Model == "" {
		opCfg.Model = c.AI.Model
	}
	if opCfg.BaseURL == "" {
		opCfg.BaseURL = c.AI.BaseURL
	}
	if opCfg.Timeout == nil {
		opCfg.Timeout = &c.AI.Timeout
	}
	if opCfg.APIKey == "" {
		opCfg.APIKey = c.AI.APIKey
	}
	if opCfg.MaxRetries == nil {
		opCfg.MaxRetries = &c.AI.MaxRetries
	}
	if opCfg.Temperature == nil {
		opCfg.Temperature = &c.AI.Temperature
	}
	// UseSystemPrompts: apply global default only if not explicitly set
	if opCfg.UseSystemPrompts == nil {
		opCfg.UseSystemPrompts = &c.AI.UseSystemPrompts
	}
}

// GetAnalyzeConfig returns the AI configuration for analyze operations with fallback to global config
func (c *Config) GetAnalyzeConfig() OperationAIConfig {
	config := c.AI.Analyze

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply analyze-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.AnalyzeResume == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeResume = c.AI.CustomPrompts.SystemPrompts.AnalyzeResume
	}
	if config.CustomPrompts.UserPrompts.AnalyzeResume == "" {
		config.CustomPrompts.UserPrompts.AnalyzeResume = c.AI.CustomPrompts.UserPrompts.AnalyzeResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.AnalyzeResumeFile == "" {
		config.CustomPrompts.SystemPrompts.AnalyzeResumeFile = c.AI.CustomPrompts.SystemPrompts.AnalyzeResumeFile
	}
	if config.CustomPrompts.UserPrompts.AnalyzeResumeFile == "" {
		config.CustomPrompts.UserPrompts.AnalyzeResumeFile = c.AI.CustomPrompts.UserPrompts.AnalyzeResumeFile
	}

	return config
}

// GetMatchConfig returns the AI configuration for match operations with fallback to global config
func (c *Config) GetMatchConfig() OperationAIConfig {
	config := c.AI.Match

	// Apply common defaults
	c.applyOperationDefaults(&config)

	// Apply match-specific prompt fallbacks
	if config.CustomPrompts.SystemPrompts.MatchResume == "" {
		config.CustomPrompts.SystemPrompts.MatchResume = c.AI.CustomPrompts.SystemPrompts.MatchResume
	}
	if config.CustomPrompts.UserPrompts.MatchResume == "" {
		config.CustomPrompts.UserPrompts.MatchResume = c.AI.CustomPrompts.UserPrompts.MatchResume
	}
	// Also copy file paths for potential later loading
	if config.CustomPrompts.SystemPrompts.MatchResumeFile == "" {
		config.CustomPrompts.SystemPrompts.MatchResumeFile = c.AI.CustomPrompts.SystemPrompts.MatchResumeFile
	}
	if config.CustomPrompts.UserPrompts.MatchResumeFile == "" {
		config.CustomPrompts.UserPrompts.MatchResumeFile = c.AI.CustomPrompts.UserPrompts.MatchResumeFile
	}

	return config
}

// GetLoadedAnalyzePrompts returns a copy of the loaded prompts for the analyze operation
func (c *Config) GetLoadedAnalyzePrompts() OperationLoadedPrompts {
	return loadedPrompts.Analyze
}

// GetLoadedMatchPrompts returns a copy of the loaded prompts for the match operation
func (c *Config) GetLoadedMatchPrompts() OperationLoadedPrompts {
	return loadedPrompts.Match
}

// GetLoadedGlobalPrompts returns a copy of the loaded global prompts
func (c *Config) GetLoadedGlobalPrompts() LoadedPrompts {
	return loadedPrompts.Global
}
