package config

import "flag"

// RegisterFlags は設定値を上書きするフラグを fs に登録します。
// 現在の値がフラグの既定値になるため、Load の後に呼び出してください。
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Host, "host", c.Host, "listen host")
	fs.IntVar(&c.Port, "port", c.Port, "listen port")
	fs.StringVar(&c.Backend, "backend", c.Backend, "image backend (openrouter|gemini)")
	fs.StringVar(&c.ImageModel, "model", c.ImageModel, "upstream image model")
	fs.StringVar(&c.OutputDir, "output-dir", c.OutputDir, "directory for generated images")
	fs.StringVar(&c.PromptsDir, "prompts-dir", c.PromptsDir, "directory of .txt prompt files")
	fs.StringVar(&c.WebDir, "web-dir", c.WebDir, "directory containing index.html")
	fs.DurationVar(&c.HTTPTimeout, "timeout", c.HTTPTimeout, "upstream HTTP timeout")
	fs.IntVar(&c.JPEGQuality, "jpeg-quality", c.JPEGQuality, "re-encode images as JPEG with this quality (0 keeps the original)")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level (debug|info|warn|error)")
}
