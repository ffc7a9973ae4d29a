// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"krishi-workers/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	exportCmd := flag.NewFlagSet("export", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	diffCmd := flag.NewFlagSet("diff", flag.ExitOnError)

	exportPath := exportCmd.String("path", defaultRegistryPath, "Path to write the registry file")

	updatePath := updateCmd.String("path", defaultRegistryPath, "Path to registry file")
	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, timeout, retries)")
	value := updateCmd.String("value", "", "New value for the field")

	validatePath := validateCmd.String("path", defaultRegistryPath, "Path to registry file")
	diffPath := diffCmd.String("path", defaultRegistryPath, "Path to registry file")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "export":
		exportCmd.Parse(os.Args[2:])
		if err := registry.SaveRegistry(registry.Builtin(), *exportPath); err != nil {
			fmt.Printf("Error exporting registry: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d activities to %s\n", len(registry.Builtin().Activities), *exportPath)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		if err := updateActivity(*updatePath, *idUpdate, *field, *value); err != nil {
			fmt.Printf("Error updating activity: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*validatePath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		if err := reg.Validate(); err != nil {
			fmt.Printf("Registry validation failed:\n%v\n", err)
			os.Exit(1)
		}
		fmt.Println("Registry validation passed.")

	case "diff":
		diffCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(*diffPath)
		if err != nil {
			fmt.Printf("Error loading registry: %v\n", err)
			os.Exit(1)
		}
		missing, extra := diffTaskTypes(registry.Builtin(), reg)
		for _, t := range missing {
			fmt.Printf("- %s (served by workers, missing from file)\n", t)
		}
		for _, t := range extra {
			fmt.Printf("+ %s (in file, no worker serves it)\n", t)
		}
		if len(missing)+len(extra) > 0 {
			os.Exit(1)
		}
		fmt.Println("Registry file matches the served task types.")

	case "help":
		fallthrough
	default:
		help()
	}
}

func updateActivity(path, id, field, value string) error {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var activity *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			activity = &reg.Activities[i]
			break
		}
	}
	if activity == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		activity.ImplementationStatus = value
	case "version":
		activity.Version = value
	case "timeout":
		activity.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		activity.Retries = retries
	default:
		return fmt.Errorf("unsupported field: %s", field)
	}

	if err := reg.Validate(); err != nil {
		return fmt.Errorf("update leaves registry invalid: %w", err)
	}
	return registry.SaveRegistry(reg, path)
}

// diffTaskTypes lists task types in want but not in got, and the reverse.
func diffTaskTypes(want, got *registry.ActivityRegistry) (missing, extra []string) {
	for _, a := range want.Activities {
		if _, ok := got.Find(a.TaskType); !ok {
			missing = append(missing, a.TaskType)
		}
	}
	for _, a := range got.Activities {
		if _, ok := want.Find(a.TaskType); !ok {
			extra = append(extra, a.TaskType)
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)
	return missing, extra
}

func help() {
	fmt.Println("Usage: registry-updater <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  export    Write the activities served by the workers to a registry file")
	fmt.Println("  update    Update one field of an activity")
	fmt.Println("  validate  Validate a registry file")
	fmt.Println("  diff      Compare a registry file with the served activities")
	fmt.Println("  help      Show this help message")
}
