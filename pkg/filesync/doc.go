// Package filesync materializes package content into a project file tree and
// removes it again.
//
// Install walks a package's files in the project's preferred order, hands
// files with a registered extension to a Transformer and copies the rest,
// asking the project how to resolve conflicts with existing files. Uninstall
// groups files by directory, reverts transformed files using the same content
// from packages that remain installed, deletes unmodified plain files and
// prunes directories that end up empty.
//
// The project is only reached through the Project interface; optional
// FileSorter and BatchProcessor capabilities are detected once per call.
package filesync
