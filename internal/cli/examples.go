package cli

// Examples is shown under "Examples:" in --help.
func Examples(name string) string {
	return `  # every .fa file in proteins/ -> result/<name>.csv
  ` + name + ` -p proteins/ --classifier-cmd "python predict.py"

  # one gzip file to stdout through a rate-limited HTTP model, 8 at a time
  ` + name + ` -p sample.fa.gz -o - -n 8 --classifier-url http://localhost:8080/classify --rate 20

  # cache bundles across runs and keep watching for new files
  ` + name + ` -p inbox/ --cache ~/.razor/cache.db --watch --classifier-cmd ./model

  # settings from a file, one flag overridden
  ` + name + ` --config razor.toml -m 60`
}
