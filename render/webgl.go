package render

import (
	"encoding/json"
	"fmt"
	"html"

	"github.com/TFMV/glowgraph/models"
)

// WebGLRenderer outputs a self-contained three.js page
type WebGLRenderer struct{}

// Name returns the name of the renderer
func (r *WebGLRenderer) Name() string {
	return "WebGL Renderer"
}

// Description returns a description of the renderer
func (r *WebGLRenderer) Description() string {
	return "Renders an interactive 3D page with emissive spheres and translucent edges using WebGL"
}

// Render creates an HTML page that draws the snapshot with three.js
func (r *WebGLRenderer) Render(snap models.Snapshot, options *OutputOptions) ([]byte, error) {
	data, err := json.Marshal(snapshotJSON(snap, options))
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	cam := options.camera()

	page := fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
    <style>
        body, html { margin: 0; padding: 0; height: 100%%; overflow: hidden; background: %s; }
    </style>
</head>
<body>
    <script type="importmap">
    { "imports": { "three": "https://unpkg.com/three@0.160.0/build/three.module.js",
                   "three/addons/": "https://unpkg.com/three@0.160.0/examples/jsm/" } }
    </script>
    <script type="module">
    import * as THREE from 'three';
    import { OrbitControls } from 'three/addons/controls/OrbitControls.js';

    const snapshot = %s;
    const animated = %t;

    const scene = new THREE.Scene();
    scene.background = new THREE.Color('%s');
    const camera = new THREE.PerspectiveCamera(%g, window.innerWidth / window.innerHeight, 0.1, 100);
    camera.position.set(%g, %g, %g);
    camera.lookAt(%g, %g, %g);

    const renderer = new THREE.WebGLRenderer({ antialias: true });
    renderer.setSize(window.innerWidth, window.innerHeight);
    document.body.appendChild(renderer.domElement);
    const controls = new OrbitControls(camera, renderer.domElement);
    controls.target.set(%g, %g, %g);

    scene.add(new THREE.AmbientLight(0xffffff, 0.2));
    const group = new THREE.Group();
    scene.add(group);

    for (const n of snapshot.nodes) {
        const mat = new THREE.MeshStandardMaterial({ color: n.color, emissive: n.color, emissiveIntensity: n.intensity });
        const mesh = new THREE.Mesh(new THREE.SphereGeometry(n.radius, 24, 16), mat);
        mesh.position.set(n.position.X, n.position.Y, n.position.Z);
        group.add(mesh);
    }
    for (const e of snapshot.edges) {
        const geom = new THREE.BufferGeometry().setFromPoints([
            new THREE.Vector3(e.from.X, e.from.Y, e.from.Z),
            new THREE.Vector3(e.to.X, e.to.Y, e.to.Z),
        ]);
        const mat = new THREE.LineBasicMaterial({ color: e.color, transparent: true, opacity: e.opacity });
        group.add(new THREE.Line(geom, mat));
    }

    window.addEventListener('resize', () => {
        camera.aspect = window.innerWidth / window.innerHeight;
        camera.updateProjectionMatrix();
        renderer.setSize(window.innerWidth, window.innerHeight);
    });

    renderer.setAnimationLoop(() => {
        if (animated) group.rotation.y += 0.002;
        controls.update();
        renderer.render(scene, camera);
    });
    </script>
</body>
</html>
`,
		html.EscapeString(snap.Name),
		normalizeColor(options.Background, "#000000"),
		data,
		options.Animated,
		normalizeColor(options.Background, "#000000"),
		cam.FOV,
		cam.Eye.X, cam.Eye.Y, cam.Eye.Z,
		cam.Target.X, cam.Target.Y, cam.Target.Z,
		cam.Target.X, cam.Target.Y, cam.Target.Z,
	)
	return []byte(page), nil
}
