// Package video assembles an optional slideshow from generated cover images
// and the downloaded audio track by shelling out to ffmpeg.
package video
