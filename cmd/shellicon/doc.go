// Command shellicon resolves, caches and exports the icons the Windows shell
// shows for files and folders.
//
//	shellicon file report.csv --out report.png
//	shellicon folder C:\Users --open
//	shellicon overlay app.exe badge.png --out badged.ico
//	shellicon prefetch C:\Projects --depth 2 --metrics
//	shellicon drives
//	shellicon config init
//
// Set SHELLICON_DEBUG=ICON,CACHE (or all) in debug builds to trace lookups.
package main
